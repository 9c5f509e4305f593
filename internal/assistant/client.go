// Package assistant calls the external narrative service that turns an
// analysis run into a written diagnosis and action plan.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/farmaindex/backend-go/internal/analysis"
	"github.com/farmaindex/backend-go/internal/config"
	"github.com/farmaindex/backend-go/internal/domain"
)

// Service produces a narrative report for a stored run.
type Service interface {
	Ask(ctx context.Context, req Request) (*Response, error)
	AnalyzeClient(ctx context.Context, pharmacy Context) (*Response, error)
}

// Request is the raw question plus optional structured context.
type Request struct {
	Question string      `json:"question"`
	Context  interface{} `json:"context,omitempty"`
}

// Response mirrors the assistant endpoint's wire format.
type Response struct {
	Answer   string `json:"answer"`
	ThreadID string `json:"threadId,omitempty"`
	Status   string `json:"status,omitempty"`
}

// ClientInfo identifies the pharmacy in the assistant payload.
type ClientInfo struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
	City string `json:"cidade,omitempty"`
	UF   string `json:"uf,omitempty"`
}

// KPIs are the headline numbers of the run.
type KPIs struct {
	Revenue         float64 `json:"faturamento"`
	GrossProfit     float64 `json:"lucro_bruto"`
	StockoutPercent float64 `json:"ruptura_percent"`
	AvgTicket       float64 `json:"ticket_medio"`
}

// CurveStats is the per-curve slice of the payload.
type CurveStats struct {
	SKUs         int     `json:"skus"`
	Stockouts    int     `json:"ruptura"`
	CoverageDays float64 `json:"estoque_dias"`
}

// Context is the structured pharmacy snapshot sent with the question.
type Context struct {
	Client                  ClientInfo                     `json:"cliente"`
	Period                  string                         `json:"periodo"`
	KPIs                    KPIs                           `json:"kpis"`
	Curves                  map[string]CurveStats          `json:"curva"`
	Alerts                  []string                       `json:"alertas"`
	ActionsTaken            []string                       `json:"acoes_ja_tomadas,omitempty"`
	PreviousStockoutPercent *float64                       `json:"ruptura_anterior_percent,omitempty"`
	TopStockouts            []analysis.ConsolidatedProduct `json:"top_faltas,omitempty"`
	TopExcess               []analysis.ConsolidatedProduct `json:"top_excessos,omitempty"`
	TopStagnant             []analysis.ConsolidatedProduct `json:"top_parados,omitempty"`
}

type httpClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ Service = (*httpClient)(nil)

// NewClient builds the HTTP assistant client. Calls fail with a
// descriptive error when the endpoint is not configured.
func NewClient(cfg config.AssistantConfig) Service {
	return &httpClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *httpClient) Ask(ctx context.Context, req Request) (*Response, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("assistant: endpoint not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("assistant: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("assistant: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("assistant: request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("assistant: request failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("assistant: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assistant: HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var out Response
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return nil, fmt.Errorf("assistant: decode response: %w", err)
	}
	return &out, nil
}

// AnalyzeClient sends the structured snapshot with the standard
// deliverables prompt: executive summary, per-curve diagnosis, alerts,
// a five step action plan and suggested OKRs.
func (c *httpClient) AnalyzeClient(ctx context.Context, pharmacy Context) (*Response, error) {
	comparison := "Se não houver ruptura anterior, apenas contextualize o nível atual."
	if pharmacy.PreviousStockoutPercent != nil {
		comparison = fmt.Sprintf(
			"Comparar ruptura atual (%.2f%%) vs anterior (%.2f%%) e indicar evolução.",
			pharmacy.KPIs.StockoutPercent, *pharmacy.PreviousStockoutPercent,
		)
	}

	question := strings.Join([]string{
		"Gerar análise e plano de ação para o cliente.",
		"Entregáveis:",
		"1) Resumo executivo",
		"2) Diagnóstico (ruptura, excesso, giro) por curva",
		"3) Top alertas e ações recomendadas",
		"4) Plano de ação em 5 passos com responsáveis e prazo",
		"5) OKRs sugeridos (2-3)",
		comparison,
	}, " ")

	return c.Ask(ctx, Request{
		Question: question,
		Context:  pharmacy,
	})
}

// BuildContext assembles the assistant payload from a stored run.
func BuildContext(client domain.Client, run domain.AnalysisRun, top domain.TopProducts, previous *domain.AnalysisRun) Context {
	summary := run.Summary

	curves := make(map[string]CurveStats, len(summary.Curves))
	for _, c := range summary.Curves {
		if c.Curve == analysis.CurveSemGiro {
			continue
		}
		curves[string(c.Curve)] = CurveStats{
			SKUs:         c.SKUs,
			Stockouts:    c.StockoutSKUs,
			CoverageDays: c.AvgCoverageDays,
		}
	}

	avgTicket := 0.0
	if summary.QuarterUnitsSold > 0 {
		avgTicket = summary.QuarterSales / summary.QuarterUnitsSold
	}

	ctx := Context{
		Client: ClientInfo{
			ID:   client.ID,
			Name: client.Name,
			City: client.City,
			UF:   client.State,
		},
		Period: fmt.Sprintf("últimos %d dias", run.PeriodDays),
		KPIs: KPIs{
			Revenue:         summary.QuarterSales,
			GrossProfit:     summary.QuarterGrossProfit,
			StockoutPercent: summary.StockoutRevenuePercent,
			AvgTicket:       avgTicket,
		},
		Curves:       curves,
		Alerts:       buildAlerts(summary),
		TopStockouts: top.Stockouts,
		TopExcess:    top.Excess,
		TopStagnant:  top.Stagnant,
	}

	if previous != nil {
		prev := previous.Summary.StockoutRevenuePercent
		ctx.PreviousStockoutPercent = &prev
	}
	return ctx
}

func buildAlerts(summary analysis.Summary) []string {
	alerts := make([]string, 0, 3)
	if summary.StockoutSKUs > 0 {
		alerts = append(alerts, fmt.Sprintf("%d produtos com venda e estoque zerado", summary.StockoutSKUs))
	}
	if summary.StagnantSKUs > 0 {
		alerts = append(alerts, fmt.Sprintf("%d produtos parados somando R$ %.2f em estoque", summary.StagnantSKUs, summary.StagnantStockValue))
	}
	if summary.TotalExcessValue > 0 {
		alerts = append(alerts, fmt.Sprintf("R$ %.2f em estoque acima do regulador", summary.TotalExcessValue))
	}
	return alerts
}
