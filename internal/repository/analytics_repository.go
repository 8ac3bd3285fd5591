package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jcastellanos/prestamos-api/internal/models"
)

// AnalyticsRepository aggregates portfolio figures for the dashboard
type AnalyticsRepository interface {
	GetOverview(ctx context.Context) (*models.PortfolioOverview, error)
	GetStatusDistribution(ctx context.Context) ([]models.StatusSlice, error)
	GetTopClients(ctx context.Context, limit int) ([]models.TopClient, error)
	GetMonthlyTrends(ctx context.Context, months int) ([]models.MonthlyTrend, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetOverview(ctx context.Context) (*models.PortfolioOverview, error) {
	overview := &models.PortfolioOverview{}

	// Loan counts and total lent in a single pass over loans
	var loanAgg struct {
		Total     int64
		Active    int64
		Overdue   int64
		TotalLent float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("COUNT(*) as total, "+
			"COUNT(*) FILTER (WHERE status IN ?) as active, "+
			"COUNT(*) FILTER (WHERE status = ?) as overdue, "+
			"COALESCE(SUM(amount), 0) as total_lent",
			[]string{models.LoanStatusPending, models.LoanStatusOverdue},
			models.LoanStatusOverdue).
		Scan(&loanAgg).Error
	if err != nil {
		return nil, err
	}

	var paymentAgg struct {
		Count int64
		Total float64
	}
	err = r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Scan(&paymentAgg).Error
	if err != nil {
		return nil, err
	}

	// Outstanding = total flat obligation of unpaid loans minus what was
	// collected against them, rounded per loan after the subtraction so the
	// figure matches what the reconciler reports loan by loan.
	var outstanding float64
	err = r.db.WithContext(ctx).
		Table("loans").
		Select("COALESCE(SUM(GREATEST(0, ROUND((loans.amount * (1 + COALESCE(loans.interest_rate, 0) / 100) - COALESCE(p.paid, 0))::numeric, 2))), 0)").
		Joins("LEFT JOIN (SELECT loan_id, SUM(amount) as paid FROM payments GROUP BY loan_id) p ON p.loan_id = loans.id").
		Where("loans.status IN ?", []string{models.LoanStatusPending, models.LoanStatusOverdue}).
		Scan(&outstanding).Error
	if err != nil {
		return nil, err
	}

	overview.TotalLoans = loanAgg.Total
	overview.ActiveLoans = loanAgg.Active
	overview.OverdueLoans = loanAgg.Overdue
	overview.TotalLent = loanAgg.TotalLent
	overview.TotalCollected = paymentAgg.Total
	overview.PaymentCount = paymentAgg.Count
	overview.TotalOutstanding = outstanding

	return overview, nil
}

func (r *analyticsRepository) GetStatusDistribution(ctx context.Context) ([]models.StatusSlice, error) {
	var slices []models.StatusSlice
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as total_amount").
		Group("status").
		Order("count DESC").
		Scan(&slices).Error
	return slices, err
}

func (r *analyticsRepository) GetTopClients(ctx context.Context, limit int) ([]models.TopClient, error) {
	if limit <= 0 {
		limit = 10
	}
	var clients []models.TopClient
	err := r.db.WithContext(ctx).
		Table("loans").
		Select("clients.id as client_id, clients.name, COUNT(loans.id) as loan_count, COALESCE(SUM(loans.amount), 0) as total_amount").
		Joins("JOIN clients ON clients.id = loans.client_id").
		Group("clients.id, clients.name").
		Order("total_amount DESC").
		Limit(limit).
		Scan(&clients).Error
	return clients, err
}

func (r *analyticsRepository) GetMonthlyTrends(ctx context.Context, months int) ([]models.MonthlyTrend, error) {
	if months <= 0 {
		months = 12
	}

	type row struct {
		Month  string
		Count  int64
		Amount float64
	}

	var issued []row
	err := r.db.WithContext(ctx).
		Table("loans").
		Select("TO_CHAR(issued_date, 'YYYY-MM') as month, COUNT(*) as count, COALESCE(SUM(amount), 0) as amount").
		Where("issued_date >= CURRENT_DATE - (? || ' months')::interval", months).
		Group("TO_CHAR(issued_date, 'YYYY-MM')").
		Order("month ASC").
		Scan(&issued).Error
	if err != nil {
		return nil, err
	}

	var paid []row
	err = r.db.WithContext(ctx).
		Table("payments").
		Select("TO_CHAR(payment_date, 'YYYY-MM') as month, COUNT(*) as count, COALESCE(SUM(amount), 0) as amount").
		Where("payment_date >= CURRENT_DATE - (? || ' months')::interval", months).
		Group("TO_CHAR(payment_date, 'YYYY-MM')").
		Order("month ASC").
		Scan(&paid).Error
	if err != nil {
		return nil, err
	}

	var overdue []row
	err = r.db.WithContext(ctx).
		Table("loans").
		Select("TO_CHAR(due_date, 'YYYY-MM') as month, COUNT(*) as count").
		Where("status = ?", models.LoanStatusOverdue).
		Where("due_date >= CURRENT_DATE - (? || ' months')::interval", months).
		Group("TO_CHAR(due_date, 'YYYY-MM')").
		Order("month ASC").
		Scan(&overdue).Error
	if err != nil {
		return nil, err
	}

	// Merge the three series on month
	trendMap := make(map[string]*models.MonthlyTrend)
	order := []string{}
	get := func(month string) *models.MonthlyTrend {
		if t, ok := trendMap[month]; ok {
			return t
		}
		t := &models.MonthlyTrend{Month: month}
		trendMap[month] = t
		order = append(order, month)
		return t
	}

	for _, res := range issued {
		t := get(res.Month)
		t.LoansIssued = res.Count
		t.AmountIssued = res.Amount
	}
	for _, res := range paid {
		t := get(res.Month)
		t.PaymentsMade = res.Count
		t.AmountPaid = res.Amount
	}
	for _, res := range overdue {
		t := get(res.Month)
		t.OverdueAtClose = res.Count
	}

	trends := make([]models.MonthlyTrend, 0, len(order))
	for _, month := range order {
		trends = append(trends, *trendMap[month])
	}
	// Months can interleave across the three series; keep chronological order
	for i := 1; i < len(trends); i++ {
		for j := i; j > 0 && trends[j].Month < trends[j-1].Month; j-- {
			trends[j], trends[j-1] = trends[j-1], trends[j]
		}
	}

	return trends, nil
}
