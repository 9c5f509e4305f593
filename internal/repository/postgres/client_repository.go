package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/farmaindex/backend-go/internal/domain"
	"github.com/farmaindex/backend-go/internal/repository"
)

type clientRepository struct {
	db *DB
}

// NewClientRepository builds the Postgres-backed pharmacy registry.
func NewClientRepository(db *DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) ListClients(ctx context.Context, orgID string) ([]domain.Client, error) {
	const query = `
		SELECT id, org_id, cnpj, nome_fantasia, cidade, uf, created_at
		FROM clientes
		WHERE org_id = $1
		ORDER BY nome_fantasia
	`

	var clients []domain.Client
	if err := r.db.SelectContext(ctx, &clients, query, orgID); err != nil {
		return nil, fmt.Errorf("error listing clients: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) GetClient(ctx context.Context, orgID, clientID string) (*domain.Client, error) {
	const query = `
		SELECT id, org_id, cnpj, nome_fantasia, cidade, uf, created_at
		FROM clientes
		WHERE org_id = $1 AND id = $2
	`

	var client domain.Client
	if err := r.db.GetContext(ctx, &client, query, orgID, clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) CreateClient(ctx context.Context, client *domain.Client) error {
	const query = `
		INSERT INTO clientes (id, org_id, cnpj, nome_fantasia, cidade, uf)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		client.ID, client.OrgID, client.CNPJ, client.Name, client.City, client.State,
	).Scan(&client.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating client: %w", err)
	}
	return nil
}
