package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/farmaindex/backend-go/internal/api/middleware"
	"github.com/farmaindex/backend-go/internal/excel"
	"github.com/farmaindex/backend-go/internal/service"
)

type AnalysisHandler struct {
	analysis *service.AnalysisService
	reports  *service.ReportService
}

func NewAnalysisHandler(analysisSvc *service.AnalysisService, reportSvc *service.ReportService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysisSvc, reports: reportSvc}
}

// Create receives the vendas and inventario workbooks as multipart form
// files and runs the engine synchronously. Validation problems come
// back as 422 with the sheet and column named.
func (h *AnalysisHandler) Create(c *gin.Context) {
	salesFile, err := formFile(c, "vendas")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arquivo 'vendas' ausente"})
		return
	}
	defer salesFile.Close()

	inventoryFile, err := formFile(c, "inventario")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arquivo 'inventario' ausente"})
		return
	}
	defer inventoryFile.Close()

	input := service.AnalysisInput{
		OrgID:     middleware.OrgID(c),
		ClientID:  c.Param("id"),
		UserID:    middleware.UserID(c),
		Sales:     salesFile,
		Inventory: inventoryFile,
	}
	input.PeriodStart, input.PeriodEnd = parsePeriod(c)

	detail, err := h.analysis.Run(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("client_id", input.ClientID).Msg("analysis run failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	top := h.analysis.TopProducts(detail)
	c.JSON(http.StatusCreated, gin.H{
		"run": detail,
		"top": top,
	})
}

// Export serves a stored run as an XLSX download. The view query
// parameter selects the product list: all (default), faltas or parados.
// The workbook is built in memory first so failures still produce a
// clean JSON error response.
func (h *AnalysisHandler) Export(c *gin.Context) {
	view := excel.ViewAll
	switch c.Query("view") {
	case "faltas":
		view = excel.ViewStockout
	case "parados":
		view = excel.ViewStagnant
	}

	runID := c.Param("id")
	var buf bytes.Buffer
	if err := h.analysis.Export(c.Request.Context(), middleware.OrgID(c), runID, view, &buf); err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("export failed")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("analise_%s.xlsx", runID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// Report asks the assistant for a narrative diagnosis of a stored run.
func (h *AnalysisHandler) Report(c *gin.Context) {
	runID := c.Param("id")
	resp, err := h.reports.Generate(c.Request.Context(), middleware.OrgID(c), runID)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("report generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func formFile(c *gin.Context, field string) (multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return header.Open()
}

func parsePeriod(c *gin.Context) (*time.Time, *time.Time) {
	var start, end *time.Time
	if v := c.PostForm("periodo_inicio"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			start = &t
		}
	}
	if v := c.PostForm("periodo_fim"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end = &t
		}
	}
	return start, end
}
