package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/farmaindex/backend-go/internal/domain"
	"github.com/farmaindex/backend-go/internal/repository"
)

// ClientService manages the pharmacy registry.
type ClientService struct {
	clients repository.ClientRepository
}

func NewClientService(clients repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

func (s *ClientService) List(ctx context.Context, orgID string) ([]domain.Client, error) {
	return s.clients.ListClients(ctx, orgID)
}

func (s *ClientService) Get(ctx context.Context, orgID, clientID string) (*domain.Client, error) {
	return s.clients.GetClient(ctx, orgID, clientID)
}

func (s *ClientService) Create(ctx context.Context, client *domain.Client) error {
	if client.Name == "" {
		return fmt.Errorf("nome_fantasia é obrigatório")
	}
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	return s.clients.CreateClient(ctx, client)
}
