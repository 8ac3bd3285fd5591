package services

import (
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/internal/repository"
)

func TestGenerateLoansCSV(t *testing.T) {
	mockRepo := &mockLoanRepository{}
	service := NewReportService(mockRepo, nil, nil)

	issued := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	mockRepo.mockList = func(ctx context.Context, query *repository.LoanQuery) ([]models.Loan, int64, error) {
		loans := []models.Loan{
			{
				ID:           1,
				Amount:       10000,
				InterestRate: rate(12),
				IssuedDate:   issued,
				DueDate:      due,
				Status:       models.LoanStatusPending,
				Client: models.Client{
					ID:       10,
					Name:     "Juan Pérez",
					Identity: "0801-1990-12345",
				},
				Payments: []models.Payment{
					{Amount: 3000},
				},
			},
			{
				ID:         2,
				Amount:     500,
				IssuedDate: issued,
				DueDate:    due,
				Status:     models.LoanStatusPaid,
				Client: models.Client{
					ID:       11,
					Name:     "María López",
					Identity: "0501-1995-67890",
				},
				Payments: []models.Payment{
					{Amount: 500},
				},
			},
		}
		return loans, int64(len(loans)), nil
	}

	buf, err := service.GenerateLoansCSV(context.Background(), "")
	assert.NoError(t, err)
	assert.NotNil(t, buf)

	reader := csv.NewReader(buf)
	records, err := reader.ReadAll()
	assert.NoError(t, err)

	expectedHeader := []string{"ID", "Cliente", "Identidad", "Monto", "Tasa Anual", "Emisión", "Vencimiento", "Estado", "Pagado", "Saldo"}
	assert.Equal(t, expectedHeader, records[0])

	// 10000 at 12% flat: obligation 11200, paid 3000, balance 8200
	row1 := records[1]
	assert.Equal(t, "1", row1[0])
	assert.Equal(t, "Juan Pérez", row1[1])
	assert.Equal(t, "12.00%", row1[4])
	assert.Equal(t, "2026-01-15", row1[5])
	assert.Equal(t, "Pendiente", row1[7])
	assert.Equal(t, "3000.00", row1[8])
	assert.Equal(t, "8200.00", row1[9])

	// Interest-free and fully settled
	row2 := records[2]
	assert.Equal(t, "Sin interés", row2[4])
	assert.Equal(t, "Pagado", row2[7])
	assert.Equal(t, "0.00", row2[9])
}

func TestGenerateOverdueLoansCSV(t *testing.T) {
	mockRepo := &mockLoanRepository{}
	service := NewReportService(mockRepo, nil, nil)

	mockRepo.mockFindOverdue = func(ctx context.Context) ([]models.Loan, error) {
		return []models.Loan{
			{
				ID:      3,
				Amount:  2000,
				DueDate: time.Now().AddDate(0, 0, -15),
				Status:  models.LoanStatusOverdue,
				Client: models.Client{
					ID:    12,
					Name:  "Carlos Mejía",
					Phone: "9999-9999",
				},
			},
		}, nil
	}

	buf, err := service.GenerateOverdueLoansCSV(context.Background())
	assert.NoError(t, err)

	reader := csv.NewReader(buf)
	records, err := reader.ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, "Carlos Mejía", row[1])
	assert.Equal(t, "9999-9999", row[2])
	assert.Equal(t, "15", row[4])
	assert.Equal(t, "2000.00", row[6])
}
