package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/jcastellanos/prestamos-api/internal/models"
)

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Loan, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Loan, error)
	FindByGUID(ctx context.Context, guid string) (*models.Loan, error)
	FindByClient(ctx context.Context, clientID uint) ([]models.Loan, error)
	Create(ctx context.Context, loan *models.Loan) error
	Update(ctx context.Context, loan *models.Loan) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	DeleteWithPayments(ctx context.Context, id uint) error
	List(ctx context.Context, query *LoanQuery) ([]models.Loan, int64, error)
	FindUnpaidWithPayments(ctx context.Context) ([]models.Loan, error)
	FindOverdueWithClient(ctx context.Context) ([]models.Loan, error)
}

// LoanQuery extends ListQuery with loan-specific filters
type LoanQuery struct {
	*ListQuery
	ClientID uint
	Status   string
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	// Client comes via Joins in one query; Payments is one-to-many so it
	// stays a Preload.
	err := r.db.WithContext(ctx).
		Joins("Client").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC")
		}).
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindByGUID(ctx context.Context, guid string) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Joins("Client").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC")
		}).
		Where("loans.guid = ?", guid).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindByClient(ctx context.Context, clientID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Preload("Payments").
		Order("issued_date DESC").
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

func (r *loanRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	updates := map[string]interface{}{"status": status}
	if status == models.LoanStatusPaid {
		updates["paid_at"] = gorm.Expr("CURRENT_TIMESTAMP")
	} else {
		updates["paid_at"] = nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteWithPayments removes the loan and its payments in one transaction,
// payments first so the foreign key never dangles.
func (r *loanRepository) DeleteWithPayments(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Loan{}, id).Error
	})
}

func (r *loanRepository) List(ctx context.Context, query *LoanQuery) ([]models.Loan, int64, error) {
	var loans []models.Loan
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Loan{})

	// Apply status filter (single or multiple via status_in)
	if query.Filters != nil {
		if val, ok := query.Filters["status_in"]; ok && val != "" {
			statuses := strings.Split(val, ",")
			for i, s := range statuses {
				statuses[i] = strings.TrimSpace(s)
			}
			if len(statuses) > 0 {
				db = db.Where("loans.status IN ?", statuses)
			}
		}
	}
	if query.Filters == nil || query.Filters["status_in"] == "" {
		if query.Status != "" {
			db = db.Where("loans.status = ?", query.Status)
		}
	}

	// Apply client filter
	if query.ClientID > 0 {
		db = db.Where("loans.client_id = ?", query.ClientID)
	}

	// Apply issued_date filters
	if query.Filters != nil {
		if val, ok := query.Filters["issued_from"]; ok && val != "" {
			db = db.Where("loans.issued_date >= ?", val)
		}
		if val, ok := query.Filters["issued_to"]; ok && val != "" {
			db = db.Where("loans.issued_date <= ?", val)
		}
		if val, ok := query.Filters["guid"]; ok && val != "" {
			db = db.Where("loans.guid = ?", val)
		}
	}

	// Apply search (JOIN only for filtering; Client is loaded via Preload below)
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN clients ON clients.id = loans.client_id").
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
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("loans.created_at DESC")
	}

	// Apply pagination
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Client").
		Preload("Payments").
		Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// FindUnpaidWithPayments returns every loan not yet paid, with payments
// preloaded so the caller can reconcile balances without extra round-trips.
func (r *loanRepository) FindUnpaidWithPayments(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Where("loans.status IN ?", []string{models.LoanStatusPending, models.LoanStatusOverdue}).
		Preload("Payments").
		Order("loans.due_date ASC").
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) FindOverdueWithClient(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Where("loans.status = ?", models.LoanStatusOverdue).
		Preload("Client").
		Preload("Payments").
		Order("loans.due_date ASC").
		Find(&loans).Error
	return loans, err
}
