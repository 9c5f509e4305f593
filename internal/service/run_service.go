package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/farmaindex/backend-go/internal/cache"
	"github.com/farmaindex/backend-go/internal/domain"
	"github.com/farmaindex/backend-go/internal/repository"
)

// RunService serves the stored-run history and the per-client dashboard.
type RunService struct {
	runs  repository.RunRepository
	cache cache.RunCache
}

func NewRunService(runs repository.RunRepository, cacheImpl cache.RunCache) *RunService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopRunCache()
	}
	return &RunService{runs: runs, cache: cacheImpl}
}

func (s *RunService) GetRun(ctx context.Context, orgID, runID string) (*domain.AnalysisRunDetail, error) {
	return s.runs.GetRun(ctx, orgID, runID)
}

func (s *RunService) ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.AnalysisRun, error) {
	return s.runs.ListRuns(ctx, filter)
}

func (s *RunService) GetRunCurves(ctx context.Context, orgID, runID string) ([]domain.RunCurve, error) {
	run, err := s.runs.GetRun(ctx, orgID, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	return s.runs.GetRunCurves(ctx, runID)
}

// Dashboard returns the client's latest run summary, cache-aside.
func (s *RunService) Dashboard(ctx context.Context, orgID, clientID string) (*domain.AnalysisRun, error) {
	if run, ok, err := s.cache.GetDashboard(ctx, orgID, clientID); err == nil && ok {
		return run, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("runs: cache get dashboard failed")
	}

	run, err := s.runs.LatestRun(ctx, orgID, clientID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}

	if err := s.cache.SetDashboard(ctx, orgID, clientID, run); err != nil {
		log.Warn().Err(err).Msg("runs: cache set dashboard failed")
	}

	return run, nil
}

// FlushCache drops every cached dashboard across all organizations.
// Admin escape hatch for when stored runs are mutated out of band.
func (s *RunService) FlushCache(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

// PreviousRun returns the run stored immediately before the given one
// for the same client, used for stockout trend comparison.
func (s *RunService) PreviousRun(ctx context.Context, orgID, clientID, currentID string) (*domain.AnalysisRun, error) {
	runs, err := s.runs.ListRuns(ctx, domain.RunFilter{OrgID: orgID, ClientID: clientID, Limit: 0})
	if err != nil {
		return nil, err
	}
	for i, run := range runs {
		if run.ID == currentID && i+1 < len(runs) {
			return &runs[i+1], nil
		}
	}
	return nil, nil
}
