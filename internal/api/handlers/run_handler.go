package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/farmaindex/backend-go/internal/api/middleware"
	"github.com/farmaindex/backend-go/internal/domain"
	"github.com/farmaindex/backend-go/internal/service"
)

type RunHandler struct {
	runs *service.RunService
}

func NewRunHandler(runs *service.RunService) *RunHandler {
	return &RunHandler{runs: runs}
}

// List returns the run history, optionally filtered by client.
func (h *RunHandler) List(c *gin.Context) {
	filter := domain.RunFilter{
		OrgID:    middleware.OrgID(c),
		ClientID: c.Query("cliente_id"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	runs, err := h.runs.ListRuns(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao listar análises"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// ListForClient returns the run history of one client, newest first.
func (h *RunHandler) ListForClient(c *gin.Context) {
	filter := domain.RunFilter{
		OrgID:    middleware.OrgID(c),
		ClientID: c.Param("id"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	runs, err := h.runs.ListRuns(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao listar análises"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// Get returns one run with its full product lists.
func (h *RunHandler) Get(c *gin.Context) {
	run, err := h.runs.GetRun(c.Request.Context(), middleware.OrgID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao buscar análise"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "análise não encontrada"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// Curves returns the per-curve rollup rows of a run.
func (h *RunHandler) Curves(c *gin.Context) {
	curves, err := h.runs.GetRunCurves(c.Request.Context(), middleware.OrgID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao buscar curvas"})
		return
	}
	if curves == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "análise não encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"curvas": curves})
}

// FlushCache drops all cached dashboards. Admin only.
func (h *RunHandler) FlushCache(c *gin.Context) {
	if err := h.runs.FlushCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao limpar cache"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Dashboard returns the latest run summary for a client.
func (h *RunHandler) Dashboard(c *gin.Context) {
	run, err := h.runs.Dashboard(c.Request.Context(), middleware.OrgID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao montar dashboard"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cliente sem análises"})
		return
	}
	c.JSON(http.StatusOK, run)
}
