package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcastellanos/prestamos-api/internal/config"
	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/pkg/logger"
)

func overdueLoanFixture() []models.Loan {
	return []models.Loan{
		{
			ID: 1, GUID: "abc-123", Amount: 1000,
			DueDate: time.Now().AddDate(0, 0, -10),
			Status:  models.LoanStatusOverdue,
			Client:  models.Client{ID: 1, Name: "Juan Pérez"},
		},
	}
}

func TestSendOverdueDigest_SkipsWhenNotConfigured(t *testing.T) {
	logger.Setup("test")

	tests := []struct {
		name  string
		cfg   *config.Config
		loans []models.Loan
	}{
		{
			name:  "no API key",
			cfg:   &config.Config{NotifyEmail: "admin@prestamos.app", FromEmail: "noreply@prestamos.app"},
			loans: overdueLoanFixture(),
		},
		{
			name:  "no recipient",
			cfg:   &config.Config{ResendAPIKey: "re_test", FromEmail: "noreply@prestamos.app"},
			loans: overdueLoanFixture(),
		},
		{
			name:  "no overdue loans",
			cfg:   &config.Config{ResendAPIKey: "re_test", NotifyEmail: "admin@prestamos.app"},
			loans: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewEmailService(tt.cfg)
			// Nothing should be sent, so no network call and no error.
			err := service.SendOverdueDigest(context.Background(), tt.loans)
			assert.NoError(t, err)
		})
	}
}
