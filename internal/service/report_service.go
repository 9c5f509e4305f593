package service

import (
	"context"
	"fmt"

	"github.com/farmaindex/backend-go/internal/assistant"
	"github.com/farmaindex/backend-go/internal/repository"
)

// ReportService produces the narrative diagnosis of a stored run by
// combining the run data with the external assistant.
type ReportService struct {
	runs      repository.RunRepository
	clients   repository.ClientRepository
	runSvc    *RunService
	analysis  *AnalysisService
	assistant assistant.Service
}

func NewReportService(
	runs repository.RunRepository,
	clients repository.ClientRepository,
	runSvc *RunService,
	analysisSvc *AnalysisService,
	assistantSvc assistant.Service,
) *ReportService {
	return &ReportService{
		runs:      runs,
		clients:   clients,
		runSvc:    runSvc,
		analysis:  analysisSvc,
		assistant: assistantSvc,
	}
}

// Generate builds the assistant payload for a run and returns the
// written report.
func (s *ReportService) Generate(ctx context.Context, orgID, runID string) (*assistant.Response, error) {
	detail, err := s.runs.GetRun(ctx, orgID, runID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("análise não encontrada")
	}

	client, err := s.clients.GetClient(ctx, orgID, detail.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	previous, err := s.runSvc.PreviousRun(ctx, orgID, detail.ClientID, runID)
	if err != nil {
		return nil, err
	}

	top := s.analysis.TopProducts(detail)
	payload := assistant.BuildContext(*client, detail.AnalysisRun, top, previous)

	return s.assistant.AnalyzeClient(ctx, payload)
}
