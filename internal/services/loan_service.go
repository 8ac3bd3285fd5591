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
	"github.com/jcastellanos/prestamos-api/internal/statemachine"
	"github.com/jcastellanos/prestamos-api/pkg/logger"
)

// LoanService handles loan business logic
type LoanService struct {
	loanRepo    repository.LoanRepository
	clientRepo  repository.ClientRepository
	paymentRepo repository.PaymentRepository
	auditSvc    *AuditService
}

// NewLoanService creates a new loan service
func NewLoanService(loanRepo repository.LoanRepository, clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository, auditSvc *AuditService) *LoanService {
	return &LoanService{
		loanRepo:    loanRepo,
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		auditSvc:    auditSvc,
	}
}

// CreateLoanInput holds the fields for granting a loan
type CreateLoanInput struct {
	ClientID     uint     `json:"client_id" binding:"required"`
	Amount       float64  `json:"amount" binding:"required"`
	IssuedDate   string   `json:"issued_date" binding:"required"` // YYYY-MM-DD
	DueDate      string   `json:"due_date" binding:"required"`    // YYYY-MM-DD
	InterestRate *float64 `json:"interest_rate"`                  // annual percent, nil = interest-free
}

// UpdateLoanInput holds the mutable fields of a loan
type UpdateLoanInput struct {
	Amount       *float64 `json:"amount"`
	IssuedDate   *string  `json:"issued_date"`
	DueDate      *string  `json:"due_date"`
	InterestRate *float64 `json:"interest_rate"`
}

const dateLayout = "2006-01-02"

// Create grants a new loan to a client
func (s *LoanService) Create(ctx context.Context, input CreateLoanInput, actorID uint) (*models.Loan, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: el monto debe ser mayor que cero", ErrInvalidAmount)
	}
	if input.InterestRate != nil && *input.InterestRate < 0 {
		return nil, fmt.Errorf("%w: la tasa de interés no puede ser negativa", ErrInvalidAmount)
	}

	client, err := s.clientRepo.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, fmt.Errorf("cliente no encontrado: %w", ErrNotFound)
	}

	issued, err := time.Parse(dateLayout, input.IssuedDate)
	if err != nil {
		return nil, errors.New("fecha de emisión inválida, formato esperado YYYY-MM-DD")
	}
	due, err := time.Parse(dateLayout, input.DueDate)
	if err != nil {
		return nil, errors.New("fecha de vencimiento inválida, formato esperado YYYY-MM-DD")
	}
	if due.Before(issued) {
		return nil, errors.New("la fecha de vencimiento no puede ser anterior a la emisión")
	}

	loan := &models.Loan{
		ClientID:     client.ID,
		Amount:       finance.Round2(input.Amount),
		IssuedDate:   issued,
		DueDate:      due,
		InterestRate: input.InterestRate,
		Status:       models.LoanStatusPending,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	// A loan created with a past due date is already overdue
	if err := s.Recompute(ctx, loan.ID); err != nil {
		logger.Warn("no se pudo recalcular el estado del préstamo recién creado",
			"loan_id", loan.ID, "error", err)
	}

	s.auditSvc.Log(ctx, actorID, AuditActionCreate, "Loan", loan.ID,
		fmt.Sprintf("Préstamo de %.2f a %s", loan.Amount, client.Name), "", "")

	return s.loanRepo.FindByIDWithDetails(ctx, loan.ID)
}

// Update modifies a loan's terms and recomputes its status
func (s *LoanService) Update(ctx context.Context, id uint, input UpdateLoanInput, actorID uint) (*models.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if input.Amount != nil {
		if *input.Amount <= 0 {
			return nil, fmt.Errorf("%w: el monto debe ser mayor que cero", ErrInvalidAmount)
		}
		loan.Amount = finance.Round2(*input.Amount)
	}
	if input.IssuedDate != nil {
		issued, err := time.Parse(dateLayout, *input.IssuedDate)
		if err != nil {
			return nil, errors.New("fecha de emisión inválida, formato esperado YYYY-MM-DD")
		}
		loan.IssuedDate = issued
	}
	if input.DueDate != nil {
		due, err := time.Parse(dateLayout, *input.DueDate)
		if err != nil {
			return nil, errors.New("fecha de vencimiento inválida, formato esperado YYYY-MM-DD")
		}
		loan.DueDate = due
	}
	if input.InterestRate != nil {
		if *input.InterestRate < 0 {
			return nil, fmt.Errorf("%w: la tasa de interés no puede ser negativa", ErrInvalidAmount)
		}
		loan.InterestRate = input.InterestRate
	}
	if loan.DueDate.Before(loan.IssuedDate) {
		return nil, errors.New("la fecha de vencimiento no puede ser anterior a la emisión")
	}

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	// New terms mean a new balance, the stored status may no longer hold
	if err := s.Recompute(ctx, loan.ID); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, AuditActionUpdate, "Loan", loan.ID,
		fmt.Sprintf("Préstamo %s actualizado", loan.GUID), "", "")

	return s.loanRepo.FindByIDWithDetails(ctx, loan.ID)
}

// Delete removes a loan along with its payment history
func (s *LoanService) Delete(ctx context.Context, id uint, actorID uint) error {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if err := s.loanRepo.DeleteWithPayments(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, AuditActionDelete, "Loan", id,
		fmt.Sprintf("Préstamo %s eliminado con sus pagos", loan.GUID), "", "")

	return nil
}

// GetByID retrieves a loan with client and payments
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loanRepo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return loan, nil
}

// GetByGUID retrieves a loan by its public identifier
func (s *LoanService) GetByGUID(ctx context.Context, guid string) (*models.Loan, error) {
	loan, err := s.loanRepo.FindByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return loan, nil
}

// List retrieves loans with pagination and filters
func (s *LoanService) List(ctx context.Context, query *repository.LoanQuery) ([]models.Loan, int64, error) {
	return s.loanRepo.List(ctx, query)
}

// ListByClient retrieves every loan of a client
func (s *LoanService) ListByClient(ctx context.Context, clientID uint) ([]models.Loan, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, ErrNotFound
	}
	return s.loanRepo.FindByClient(ctx, clientID)
}

// Recompute derives the loan status from its balance and due date, and
// persists it when it changed. The state machine guards the transition.
func (s *LoanService) Recompute(ctx context.Context, loanID uint) error {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return ErrNotFound
	}

	totalPaid, err := s.paymentRepo.SumByLoan(ctx, loanID)
	if err != nil {
		return fmt.Errorf("%w: %v", finance.ErrDataUnavailable, err)
	}

	outstanding := finance.ReconcileBalance(loan.Amount, loan.InterestRate, []float64{totalPaid})
	derived := string(finance.DeriveStatus(loan.DueDate, outstanding, time.Now()))

	if derived == loan.Status {
		return nil
	}

	machine := statemachine.NewLoanFSM(loan.Status)
	if err := machine.Advance(ctx, derived); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.loanRepo.UpdateStatus(ctx, loanID, machine.Current()); err != nil {
		return err
	}

	logger.Info("estado de préstamo actualizado",
		"loan_id", loanID, "from", loan.Status, "to", machine.Current(), "outstanding", outstanding)

	return nil
}

// RefreshStatuses sweeps every unpaid loan and recomputes its status. Run
// periodically so loans crossing their due date overnight get flagged.
func (s *LoanService) RefreshStatuses(ctx context.Context) (int, error) {
	loans, err := s.loanRepo.FindUnpaidWithPayments(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	now := time.Now()
	for i := range loans {
		loan := &loans[i]
		outstanding := loan.OutstandingBalance()
		derived := string(finance.DeriveStatus(loan.DueDate, outstanding, now))
		if derived == loan.Status {
			continue
		}

		machine := statemachine.NewLoanFSM(loan.Status)
		if err := machine.Advance(ctx, derived); err != nil {
			logger.Error("transición de estado rechazada durante el barrido",
				"loan_id", loan.ID, "from", loan.Status, "to", derived, "error", err)
			continue
		}
		if err := s.loanRepo.UpdateStatus(ctx, loan.ID, machine.Current()); err != nil {
			logger.Error("no se pudo actualizar el estado del préstamo",
				"loan_id", loan.ID, "error", err)
			continue
		}
		updated++
	}

	if updated > 0 {
		logger.Info("barrido de estados completado", "loans_checked", len(loans), "updated", updated)
	}
	return updated, nil
}

// Outstanding returns the current reconciled balance of a loan
func (s *LoanService) Outstanding(ctx context.Context, loanID uint) (float64, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return 0, ErrNotFound
	}
	totalPaid, err := s.paymentRepo.SumByLoan(ctx, loanID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", finance.ErrDataUnavailable, err)
	}
	return finance.ReconcileBalance(loan.Amount, loan.InterestRate, []float64{totalPaid}), nil
}
