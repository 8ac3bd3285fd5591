package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/pkg/logger"
)

func newTestPaymentService(loanRepo *mockLoanRepository, paymentRepo *mockPaymentRepository) *PaymentService {
	logger.Setup("test")
	auditSvc := NewAuditService(&mockAuditRepository{})
	loanSvc := NewLoanService(loanRepo, nil, paymentRepo, auditSvc)
	return NewPaymentService(paymentRepo, loanRepo, loanSvc, auditSvc)
}

func TestRegisterPayment_RejectsNonPositiveAmount(t *testing.T) {
	service := newTestPaymentService(&mockLoanRepository{}, &mockPaymentRepository{})

	_, err := service.Register(context.Background(), RegisterPaymentInput{LoanID: 1, Amount: 0}, 1)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = service.Register(context.Background(), RegisterPaymentInput{LoanID: 1, Amount: -50}, 1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRegisterPayment_RejectsPaidLoan(t *testing.T) {
	loanRepo := &mockLoanRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Loan, error) {
			return &models.Loan{ID: id, Amount: 1000, Status: models.LoanStatusPaid}, nil
		},
	}
	service := newTestPaymentService(loanRepo, &mockPaymentRepository{})

	_, err := service.Register(context.Background(), RegisterPaymentInput{LoanID: 1, Amount: 100}, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRegisterPayment_SettlesLoan(t *testing.T) {
	loanRepo := &mockLoanRepository{}
	paymentRepo := &mockPaymentRepository{}
	service := newTestPaymentService(loanRepo, paymentRepo)

	loanRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Loan, error) {
		return &models.Loan{
			ID: 1, Amount: 1000, GUID: "abc",
			DueDate: time.Now().AddDate(0, 0, 15),
			Status:  models.LoanStatusPending,
		}, nil
	}

	created := false
	paymentRepo.mockCreate = func(ctx context.Context, payment *models.Payment) error {
		created = true
		payment.ID = 42
		assert.Equal(t, uint(1), payment.LoanID)
		assert.Equal(t, 1000.0, payment.Amount)
		return nil
	}
	// Recompute sees the full balance covered
	paymentRepo.mockSumByLoan = func(ctx context.Context, loanID uint) (float64, error) {
		return 1000, nil
	}

	var capturedStatus string
	loanRepo.mockUpdateStatus = func(ctx context.Context, id uint, status string) error {
		capturedStatus = status
		return nil
	}

	_, err := service.Register(context.Background(), RegisterPaymentInput{
		LoanID:      1,
		Amount:      1000,
		PaymentDate: "2026-08-15",
	}, 1)
	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.LoanStatusPaid, capturedStatus)
}

func TestDeletePayment_ReopensSettledLoan(t *testing.T) {
	loanRepo := &mockLoanRepository{}
	paymentRepo := &mockPaymentRepository{}
	service := newTestPaymentService(loanRepo, paymentRepo)

	// The loan was settled after its due date; removing the payment must
	// walk it back through pending into overdue.
	loanRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Loan, error) {
		return &models.Loan{
			ID: 1, Amount: 500,
			DueDate: time.Now().AddDate(0, 0, -10),
			Status:  models.LoanStatusPaid,
		}, nil
	}

	paymentRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Payment, error) {
		return &models.Payment{ID: id, LoanID: 1, Amount: 500}, nil
	}
	paymentRepo.mockSumByLoan = func(ctx context.Context, loanID uint) (float64, error) {
		return 0, nil
	}

	var capturedStatus string
	loanRepo.mockUpdateStatus = func(ctx context.Context, id uint, status string) error {
		capturedStatus = status
		return nil
	}

	err := service.Delete(context.Background(), 7, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.LoanStatusOverdue, capturedStatus)
}
