package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcastellanos/prestamos-api/internal/finance"
	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/internal/repository"
	"github.com/jcastellanos/prestamos-api/pkg/logger"
)

// Mock LoanRepository (using embedding to avoid implementing all methods)
type mockLoanRepository struct {
	repository.LoanRepository
	mockFindByID     func(ctx context.Context, id uint) (*models.Loan, error)
	mockUpdateStatus func(ctx context.Context, id uint, status string) error
	mockFindUnpaid   func(ctx context.Context) ([]models.Loan, error)
	mockCreate       func(ctx context.Context, loan *models.Loan) error
	mockFindDetails  func(ctx context.Context, id uint) (*models.Loan, error)
	mockList         func(ctx context.Context, query *repository.LoanQuery) ([]models.Loan, int64, error)
	mockFindOverdue  func(ctx context.Context) ([]models.Loan, error)
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockLoanRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, id, status)
	}
	return nil
}

func (m *mockLoanRepository) FindUnpaidWithPayments(ctx context.Context) ([]models.Loan, error) {
	return m.mockFindUnpaid(ctx)
}

func (m *mockLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, loan)
	}
	return nil
}

func (m *mockLoanRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Loan, error) {
	if m.mockFindDetails != nil {
		return m.mockFindDetails(ctx, id)
	}
	return m.mockFindByID(ctx, id)
}

func (m *mockLoanRepository) List(ctx context.Context, query *repository.LoanQuery) ([]models.Loan, int64, error) {
	if m.mockList != nil {
		return m.mockList(ctx, query)
	}
	return nil, 0, nil
}

func (m *mockLoanRepository) FindOverdueWithClient(ctx context.Context) ([]models.Loan, error) {
	if m.mockFindOverdue != nil {
		return m.mockFindOverdue(ctx)
	}
	return nil, nil
}

// Mock PaymentRepository
type mockPaymentRepository struct {
	repository.PaymentRepository
	mockSumByLoan func(ctx context.Context, loanID uint) (float64, error)
	mockCreate    func(ctx context.Context, payment *models.Payment) error
	mockFindByID  func(ctx context.Context, id uint) (*models.Payment, error)
	mockDelete    func(ctx context.Context, id uint) error
}

func (m *mockPaymentRepository) SumByLoan(ctx context.Context, loanID uint) (float64, error) {
	if m.mockSumByLoan != nil {
		return m.mockSumByLoan(ctx, loanID)
	}
	return 0, nil
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, payment)
	}
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return &models.Payment{ID: id}, nil
}

func (m *mockPaymentRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

// Mock ClientRepository
type mockClientRepository struct {
	repository.ClientRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Client, error)
	mockCreate   func(ctx context.Context, client *models.Client) error
}

func (m *mockClientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockClientRepository) Create(ctx context.Context, client *models.Client) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, client)
	}
	return nil
}

// Mock AuditRepository, swallows everything
type mockAuditRepository struct{}

func (m *mockAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return nil
}

func (m *mockAuditRepository) List(ctx context.Context, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	return nil, 0, nil
}

func newTestLoanService(loanRepo *mockLoanRepository, clientRepo *mockClientRepository,
	paymentRepo *mockPaymentRepository) *LoanService {
	logger.Setup("test")
	return NewLoanService(loanRepo, clientRepo, paymentRepo, NewAuditService(&mockAuditRepository{}))
}

func rate(v float64) *float64 { return &v }

func TestRecompute_MarksLoanOverdue(t *testing.T) {
	loanRepo := &mockLoanRepository{}
	paymentRepo := &mockPaymentRepository{}
	service := newTestLoanService(loanRepo, nil, paymentRepo)

	dueDate := time.Now().AddDate(0, 0, -5)
	loanRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Loan, error) {
		return &models.Loan{ID: 1, Amount: 1000, DueDate: dueDate, Status: models.LoanStatusPending}, nil
	}

	var capturedStatus string
	loanRepo.mockUpdateStatus = func(ctx context.Context, id uint, status string) error {
		capturedStatus = status
		return nil
	}

	err := service.Recompute(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, models.LoanStatusOverdue, capturedStatus)
}

func TestRecompute_MarksLoanPaid(t *testing.T) {
	loanRepo := &mockLoanRepository{}
	paymentRepo := &mockPaymentRepository{}
	service := newTestLoanService(loanRepo, nil, paymentRepo)

	// 1000 at 10% flat: obligation is 1100
	loanRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Loan, error) {
		return &models.Loan{
			ID: 1, Amount: 1000, InterestRate: rate(10),
			DueDate: time.Now().AddDate(0, 0, 30),
			Status:  models.LoanStatusPending,
		}, nil
	}
	paymentRepo.mockSumByLoan = func(ctx context.Context, loanID uint) (float64, error) {
		return 1100, nil
	}

	var capturedStatus string
	loanRepo.mockUpdateStatus = func(ctx context.Context, id uint, status string) error {
		capturedStatus = status
		return nil
	}

	err := service.Recompute(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, models.LoanStatusPaid, capturedStatus)
}

func TestRecompute_OverdueBackToPendingAfterExtension(t *testing.T) {
	loanRepo := &mockLoanRepository{}
	paymentRepo := &mockPaymentRepository{}
	service := newTestLoanService(loanRepo, nil, paymentRepo)

	// Due date pushed into the future while the loan still carries balance:
	// the stored overdue status must walk back to pending.
	loanRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Loan, error) {
		return &models.Loan{
			ID: 1, Amount: 1000,
			DueDate: time.Now().AddDate(0, 0, 30),
			Status:  models.LoanStatusOverdue,
		}, nil
	}

	var capturedStatus string
	loanRepo.mockUpdateStatus = func(ctx context.Context, id uint, status string) error {
		capturedStatus = status
		return nil
	}

	err := service.Recompute(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, models.LoanStatusPending, capturedStatus)
}

func TestRecompute_PaymentTotalsUnavailable(t *testing.T) {
	loanRepo := &mockLoanRepository{}
	paymentRepo := &mockPaymentRepository{}
	service := newTestLoanService(loanRepo, nil, paymentRepo)

	loanRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Loan, error) {
		return &models.Loan{ID: 1, Amount: 1000, DueDate: time.Now(), Status: models.LoanStatusPending}, nil
	}
	paymentRepo.mockSumByLoan = func(ctx context.Context, loanID uint) (float64, error) {
		return 0, errors.New("connection refused")
	}

	err := service.Recompute(context.Background(), 1)
	assert.ErrorIs(t, err, finance.ErrDataUnavailable)

	_, err = service.Outstanding(context.Background(), 1)
	assert.ErrorIs(t, err, finance.ErrDataUnavailable)
}

func TestRecompute_NoChangeSkipsUpdate(t *testing.T) {
	loanRepo := &mockLoanRepository{}
	paymentRepo := &mockPaymentRepository{}
	service := newTestLoanService(loanRepo, nil, paymentRepo)

	loanRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Loan, error) {
		return &models.Loan{
			ID: 1, Amount: 1000,
			DueDate: time.Now().AddDate(0, 0, 30),
			Status:  models.LoanStatusPending,
		}, nil
	}

	updateCalled := false
	loanRepo.mockUpdateStatus = func(ctx context.Context, id uint, status string) error {
		updateCalled = true
		return nil
	}

	err := service.Recompute(context.Background(), 1)
	assert.NoError(t, err)
	assert.False(t, updateCalled, "status did not change, UpdateStatus should not be called")
}

func TestCreateLoan_RejectsInvalidInput(t *testing.T) {
	loanRepo := &mockLoanRepository{}
	clientRepo := &mockClientRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Client, error) {
			return &models.Client{ID: id, Name: "Juan Pérez"}, nil
		},
	}
	service := newTestLoanService(loanRepo, clientRepo, &mockPaymentRepository{})

	tests := []struct {
		name  string
		input CreateLoanInput
	}{
		{
			name:  "Zero amount",
			input: CreateLoanInput{ClientID: 1, Amount: 0, IssuedDate: "2026-01-01", DueDate: "2026-06-01"},
		},
		{
			name:  "Negative rate",
			input: CreateLoanInput{ClientID: 1, Amount: 500, InterestRate: rate(-5), IssuedDate: "2026-01-01", DueDate: "2026-06-01"},
		},
		{
			name:  "Due before issued",
			input: CreateLoanInput{ClientID: 1, Amount: 500, IssuedDate: "2026-06-01", DueDate: "2026-01-01"},
		},
		{
			name:  "Bad date format",
			input: CreateLoanInput{ClientID: 1, Amount: 500, IssuedDate: "01/01/2026", DueDate: "2026-06-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.input, 1)
			assert.Error(t, err)
		})
	}
}

func TestRefreshStatuses_SweepsUnpaidLoans(t *testing.T) {
	loanRepo := &mockLoanRepository{}
	service := newTestLoanService(loanRepo, nil, &mockPaymentRepository{})

	now := time.Now()
	loanRepo.mockFindUnpaid = func(ctx context.Context) ([]models.Loan, error) {
		return []models.Loan{
			// Crossed its due date, should flip to overdue
			{ID: 1, Amount: 1000, DueDate: now.AddDate(0, 0, -2), Status: models.LoanStatusPending},
			// Still current, stays pending
			{ID: 2, Amount: 2000, DueDate: now.AddDate(0, 0, 30), Status: models.LoanStatusPending},
		}, nil
	}

	updates := map[uint]string{}
	loanRepo.mockUpdateStatus = func(ctx context.Context, id uint, status string) error {
		updates[id] = status
		return nil
	}

	updated, err := service.RefreshStatuses(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, models.LoanStatusOverdue, updates[1])
	assert.NotContains(t, updates, uint(2))
}
