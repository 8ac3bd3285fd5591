package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/internal/repository"
)

// ClientService handles client business logic
type ClientService struct {
	clientRepo repository.ClientRepository
	auditSvc   *AuditService
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, auditSvc *AuditService) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		auditSvc:   auditSvc,
	}
}

// CreateClientInput holds the fields for creating a client
type CreateClientInput struct {
	Name     string `json:"name" binding:"required"`
	Identity string `json:"identity" binding:"required"`
	Phone    string `json:"phone"`
}

// Create registers a new client
func (s *ClientService) Create(ctx context.Context, input CreateClientInput, actorID uint) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	identity := strings.TrimSpace(input.Identity)
	if name == "" || identity == "" {
		return nil, errors.New("nombre e identidad son obligatorios")
	}

	client := &models.Client{
		Name:     name,
		Identity: identity,
		Phone:    strings.TrimSpace(input.Phone),
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: ya existe un cliente con este documento de identidad", ErrDuplicate)
		}
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, AuditActionCreate, "Client", client.ID,
		fmt.Sprintf("Cliente %s (%s) creado", client.Name, client.Identity), "", "")

	return client, nil
}

// Update modifies an existing client
func (s *ClientService) Update(ctx context.Context, id uint, input CreateClientInput, actorID uint) (*models.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		client.Name = name
	}
	if identity := strings.TrimSpace(input.Identity); identity != "" {
		client.Identity = identity
	}
	client.Phone = strings.TrimSpace(input.Phone)

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: ya existe un cliente con este documento de identidad", ErrDuplicate)
		}
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, AuditActionUpdate, "Client", client.ID,
		fmt.Sprintf("Cliente %s actualizado", client.Name), "", "")

	return client, nil
}

// Delete removes a client without loans. Clients with loan history must have
// their loans deleted first so no balance disappears silently.
func (s *ClientService) Delete(ctx context.Context, id uint, actorID uint) error {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	count, err := s.clientRepo.CountLoans(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasLoans
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, AuditActionDelete, "Client", id,
		fmt.Sprintf("Cliente %s (%s) eliminado", client.Name, client.Identity), "", "")

	return nil
}

// GetByID retrieves a single client
func (s *ClientService) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return client, nil
}

// List retrieves clients with pagination and search
func (s *ClientService) List(ctx context.Context, query *repository.ListQuery) ([]models.Client, int64, error) {
	return s.clientRepo.List(ctx, query)
}
