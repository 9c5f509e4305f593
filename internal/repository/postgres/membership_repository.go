package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/farmaindex/backend-go/internal/domain"
	"github.com/farmaindex/backend-go/internal/repository"
)

type membershipRepository struct {
	db *DB
}

// NewMembershipRepository builds the Postgres-backed membership resolver.
func NewMembershipRepository(db *DB) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

// GetMembership joins org_members with the app user record so root
// users keep their elevated access regardless of role.
func (r *membershipRepository) GetMembership(ctx context.Context, userID string) (*domain.Membership, error) {
	const query = `
		SELECT m.org_id, m.user_id, m.role,
		       COALESCE(u.is_root, FALSE) AS is_root
		FROM org_members m
		LEFT JOIN usuarios_app u ON u.user_id = m.user_id
		WHERE m.user_id = $1
	`

	var membership domain.Membership
	if err := r.db.GetContext(ctx, &membership, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting membership: %w", err)
	}
	return &membership, nil
}
