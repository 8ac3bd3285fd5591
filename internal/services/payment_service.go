package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jcastellanos/prestamos-api/internal/finance"
	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/internal/repository"
	"github.com/jcastellanos/prestamos-api/pkg/logger"
)

// PaymentService handles payment business logic
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	loanRepo    repository.LoanRepository
	loanSvc     *LoanService
	auditSvc    *AuditService
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repository.PaymentRepository, loanRepo repository.LoanRepository,
	loanSvc *LoanService, auditSvc *AuditService) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		loanRepo:    loanRepo,
		loanSvc:     loanSvc,
		auditSvc:    auditSvc,
	}
}

// RegisterPaymentInput holds the fields for recording a payment
type RegisterPaymentInput struct {
	LoanID      uint    `json:"loan_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	PaymentDate string  `json:"payment_date"` // YYYY-MM-DD, defaults to today
}

// Register records a payment against a loan and recomputes the loan status.
// Registering against a paid loan is rejected; overpaying an open loan is
// allowed, the balance just clamps at zero.
func (s *PaymentService) Register(ctx context.Context, input RegisterPaymentInput, actorID uint) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: el pago debe ser mayor que cero", ErrInvalidAmount)
	}

	loan, err := s.loanRepo.FindByID(ctx, input.LoanID)
	if err != nil {
		return nil, fmt.Errorf("préstamo no encontrado: %w", ErrNotFound)
	}
	if loan.Status == models.LoanStatusPaid {
		return nil, fmt.Errorf("%w: el préstamo ya está pagado", ErrInvalidState)
	}

	paymentDate := time.Now()
	if input.PaymentDate != "" {
		paymentDate, err = time.Parse(dateLayout, input.PaymentDate)
		if err != nil {
			return nil, errors.New("fecha de pago inválida, formato esperado YYYY-MM-DD")
		}
	}

	payment := &models.Payment{
		LoanID:      loan.ID,
		Amount:      finance.Round2(input.Amount),
		PaymentDate: paymentDate,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.loanSvc.Recompute(ctx, loan.ID); err != nil {
		logger.Error("pago registrado pero el estado no se pudo recalcular",
			"loan_id", loan.ID, "payment_id", payment.ID, "error", err)
	}

	s.auditSvc.Log(ctx, actorID, AuditActionCreate, "Payment", payment.ID,
		fmt.Sprintf("Pago de %.2f al préstamo %s", payment.Amount, loan.GUID), "", "")

	return s.paymentRepo.FindByID(ctx, payment.ID)
}

// Delete removes a payment and recomputes the loan status. A paid loan can
// reopen here when the deleted payment was the one that settled it.
func (s *PaymentService) Delete(ctx context.Context, id uint, actorID uint) error {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.loanSvc.Recompute(ctx, payment.LoanID); err != nil {
		logger.Error("pago eliminado pero el estado no se pudo recalcular",
			"loan_id", payment.LoanID, "payment_id", id, "error", err)
	}

	s.auditSvc.Log(ctx, actorID, AuditActionDelete, "Payment", id,
		fmt.Sprintf("Pago de %.2f eliminado del préstamo %d", payment.Amount, payment.LoanID), "", "")

	return nil
}

// GetByID retrieves a single payment
func (s *PaymentService) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// ListByLoan retrieves the payment history of a loan
func (s *PaymentService) ListByLoan(ctx context.Context, loanID uint) ([]models.Payment, error) {
	if _, err := s.loanRepo.FindByID(ctx, loanID); err != nil {
		return nil, ErrNotFound
	}
	return s.paymentRepo.FindByLoan(ctx, loanID)
}

// List retrieves payments with pagination and filters
func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(ctx, query)
}
