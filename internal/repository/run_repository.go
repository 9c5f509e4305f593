package repository

import (
	"context"

	"github.com/farmaindex/backend-go/internal/domain"
)

// RunRepository persists and retrieves analysis runs.
type RunRepository interface {
	// SaveRun stores the run, its product lists and its per-curve
	// rollups in one transaction. The run's ID must be set.
	SaveRun(ctx context.Context, run *domain.AnalysisRunDetail) error
	GetRun(ctx context.Context, orgID, runID string) (*domain.AnalysisRunDetail, error)
	ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.AnalysisRun, error)
	// LatestRun returns the most recent run for a client, without the
	// product lists. Returns nil when the client has no runs yet.
	LatestRun(ctx context.Context, orgID, clientID string) (*domain.AnalysisRun, error)
	GetRunCurves(ctx context.Context, runID string) ([]domain.RunCurve, error)
}

// ClientRepository manages the pharmacy registry.
type ClientRepository interface {
	ListClients(ctx context.Context, orgID string) ([]domain.Client, error)
	GetClient(ctx context.Context, orgID, clientID string) (*domain.Client, error)
	CreateClient(ctx context.Context, client *domain.Client) error
}

// MembershipRepository resolves a user's organization and role.
type MembershipRepository interface {
	// GetMembership returns nil when the user belongs to no
	// organization; callers must treat that as access denied.
	GetMembership(ctx context.Context, userID string) (*domain.Membership, error)
}
