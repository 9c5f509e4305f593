package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/farmaindex/backend-go/internal/analysis"
	"github.com/farmaindex/backend-go/internal/domain"
	"github.com/farmaindex/backend-go/internal/service"
)

type stubRunRepo struct {
	runs map[string]*domain.AnalysisRunDetail
}

func (r *stubRunRepo) SaveRun(ctx context.Context, run *domain.AnalysisRunDetail) error {
	r.runs[run.ID] = run
	return nil
}

func (r *stubRunRepo) GetRun(ctx context.Context, orgID, runID string) (*domain.AnalysisRunDetail, error) {
	run, ok := r.runs[runID]
	if !ok || run.OrgID != orgID {
		return nil, nil
	}
	return run, nil
}

func (r *stubRunRepo) ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.AnalysisRun, error) {
	return nil, nil
}

func (r *stubRunRepo) LatestRun(ctx context.Context, orgID, clientID string) (*domain.AnalysisRun, error) {
	return nil, nil
}

func (r *stubRunRepo) GetRunCurves(ctx context.Context, runID string) ([]domain.RunCurve, error) {
	return nil, nil
}

type stubClientRepo struct{}

func (stubClientRepo) ListClients(ctx context.Context, orgID string) ([]domain.Client, error) {
	return nil, nil
}

func (stubClientRepo) GetClient(ctx context.Context, orgID, clientID string) (*domain.Client, error) {
	return nil, nil
}

func (stubClientRepo) CreateClient(ctx context.Context, client *domain.Client) error {
	return nil
}

func newExportRouter(t *testing.T, runs *stubRunRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewAnalysisService(analysis.NewDefaultEngine(), runs, stubClientRepo{}, nil, nil, 10)
	handler := NewAnalysisHandler(svc, nil)

	r := gin.New()
	r.GET("/analises/:id/export", func(c *gin.Context) {
		c.Set("org_id", "org-1")
		handler.Export(c)
	})
	return r
}

func TestExportMissingRunKeepsResponseClean(t *testing.T) {
	r := newExportRouter(t, &stubRunRepo{runs: map[string]*domain.AnalysisRunDetail{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analises/nope/export", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"), "no attachment headers on errors")
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "análise não encontrada")
}

func TestExportStreamsWorkbook(t *testing.T) {
	detail := &domain.AnalysisRunDetail{
		AnalysisRun: domain.AnalysisRun{ID: "run-1", OrgID: "org-1", ClientID: "farm-1"},
		Stockouts: []analysis.ConsolidatedProduct{
			{MergeKey: "EAN:1", EAN: "1", Description: "Dipirona", QuantitySold: 10, CMVPeriod: 200, Curve: analysis.CurveA, Stockout: true},
		},
	}
	r := newExportRouter(t, &stubRunRepo{runs: map[string]*domain.AnalysisRunDetail{"run-1": detail}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analises/run-1/export?view=faltas", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "analise_run-1.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Produtos em falta"}, f.GetSheetList())
}
