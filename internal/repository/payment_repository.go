package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jcastellanos/prestamos-api/internal/models"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByLoan(ctx context.Context, loanID uint) ([]models.Payment, error)
	SumByLoan(ctx context.Context, loanID uint) (float64, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uint) error
	DeleteByLoan(ctx context.Context, loanID uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Loan.Client").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByLoan(ctx context.Context, loanID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) SumByLoan(ctx context.Context, loanID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("loan_id = ?", loanID).
		Scan(&total).Error
	return total, err
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, id).Error
}

func (r *paymentRepository) DeleteByLoan(ctx context.Context, loanID uint) error {
	return r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&models.Payment{}).Error
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	// Apply date filters
	if val, ok := query.Filters["start_date"]; ok && val != "" {
		db = db.Where("payments.payment_date >= ?", val)
	}
	if val, ok := query.Filters["end_date"]; ok && val != "" {
		db = db.Where("payments.payment_date <= ?", val)
	}

	// Apply loan filter
	if val, ok := query.Filters["loan_id"]; ok && val != "" {
		db = db.Where("payments.loan_id = ?", val)
	}

	// Apply search (JOIN only for filtering; Loan.Client loaded via Preload below)
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("JOIN loans ON loans.id = payments.loan_id").
			Joins("JOIN clients ON clients.id = loans.client_id").
			Where("clients.name ILIKE ? OR clients.identity ILIKE ? OR loans.guid ILIKE ?",
				search, search, search)
	}

	// Count total using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting
	if query.SortBy != "" {
		order := "payments." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("payments.payment_date DESC")
	}

	// Apply pagination
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("payments.*").
		Preload("Loan.Client").
		Find(&payments).Error

	return payments, total, err
}
