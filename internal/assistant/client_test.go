package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmaindex/backend-go/internal/analysis"
	"github.com/farmaindex/backend-go/internal/config"
	"github.com/farmaindex/backend-go/internal/domain"
)

func TestAskSendsBearerAndDecodes(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer chave", r.Header.Get("Authorization"))
		assert.Equal(t, "chave", r.Header.Get("apikey"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Response{Answer: "ok", Status: "completed"})
	}))
	defer srv.Close()

	client := NewClient(config.AssistantConfig{Endpoint: srv.URL, APIKey: "chave"})
	resp, err := client.Ask(context.Background(), Request{Question: "qual a ruptura?"})
	require.NoError(t, err)

	assert.Equal(t, "qual a ruptura?", got.Question)
	assert.Equal(t, "ok", resp.Answer)
	assert.Equal(t, "completed", resp.Status)
}

func TestAskFailsWithoutEndpoint(t *testing.T) {
	client := NewClient(config.AssistantConfig{})
	_, err := client.Ask(context.Background(), Request{Question: "x"})
	assert.Error(t, err)
}

func TestAskSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(config.AssistantConfig{Endpoint: srv.URL})
	_, err := client.Ask(context.Background(), Request{Question: "x"})
	assert.ErrorContains(t, err, "HTTP 500")
}

func TestAnalyzeClientMentionsPreviousStockout(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Response{Answer: "relatório"})
	}))
	defer srv.Close()

	prev := 12.5
	pharmacy := Context{
		Client:                  ClientInfo{ID: "c1", Name: "Farmácia Central"},
		KPIs:                    KPIs{StockoutPercent: 8.0},
		PreviousStockoutPercent: &prev,
	}

	client := NewClient(config.AssistantConfig{Endpoint: srv.URL})
	_, err := client.AnalyzeClient(context.Background(), pharmacy)
	require.NoError(t, err)

	assert.Contains(t, got.Question, "Comparar ruptura atual (8.00%) vs anterior (12.50%)")
	assert.Contains(t, got.Question, "Plano de ação em 5 passos")
}

func TestBuildContext(t *testing.T) {
	run := domain.AnalysisRun{
		PeriodDays: 90,
		Summary: analysis.Summary{
			QuarterSales:           9000,
			QuarterGrossProfit:     3000,
			QuarterUnitsSold:       300,
			StockoutRevenuePercent: 25,
			StockoutSKUs:           4,
			StagnantSKUs:           2,
			StagnantStockValue:     150,
			TotalExcessValue:       80,
			Curves: []analysis.CurveSummary{
				{Curve: analysis.CurveA, SKUs: 5, StockoutSKUs: 1, AvgCoverageDays: 12},
				{Curve: analysis.CurveSemGiro, SKUs: 2},
			},
		},
	}
	previous := domain.AnalysisRun{Summary: analysis.Summary{StockoutRevenuePercent: 30}}

	ctx := BuildContext(domain.Client{ID: "c1", Name: "Farmácia Central", City: "Recife", State: "PE"}, run, domain.TopProducts{}, &previous)

	assert.Equal(t, "últimos 90 dias", ctx.Period)
	assert.InDelta(t, 30.0, ctx.KPIs.AvgTicket, 1e-9)
	require.Contains(t, ctx.Curves, "A")
	assert.NotContains(t, ctx.Curves, "SEM_GIRO", "only ABC curves go to the assistant")
	assert.Equal(t, 12.0, ctx.Curves["A"].CoverageDays)
	require.NotNil(t, ctx.PreviousStockoutPercent)
	assert.Equal(t, 30.0, *ctx.PreviousStockoutPercent)
	assert.Len(t, ctx.Alerts, 3)
}
