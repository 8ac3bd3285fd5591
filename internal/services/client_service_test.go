package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/pkg/logger"
)

func newTestClientService(clientRepo *mockClientRepository) *ClientService {
	logger.Setup("test")
	return NewClientService(clientRepo, NewAuditService(&mockAuditRepository{}))
}

func TestCreateClient_DuplicateIdentity(t *testing.T) {
	clientRepo := &mockClientRepository{
		mockCreate: func(ctx context.Context, client *models.Client) error {
			return fmt.Errorf("%w: documento de identidad ya registrado", gorm.ErrDuplicatedKey)
		},
	}
	service := newTestClientService(clientRepo)

	_, err := service.Create(context.Background(), CreateClientInput{
		Name:     "Ana López",
		Identity: "0801-1990-12345",
	}, 1)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateClient_RequiresNameAndIdentity(t *testing.T) {
	service := newTestClientService(&mockClientRepository{})

	_, err := service.Create(context.Background(), CreateClientInput{Name: "  ", Identity: ""}, 1)
	assert.Error(t, err)
}
