package models

// PortfolioOverview holds the headline figures for the dashboard
type PortfolioOverview struct {
	TotalLoans       int64   `json:"total_loans"`
	ActiveLoans      int64   `json:"active_loans"`
	OverdueLoans     int64   `json:"overdue_loans"`
	TotalLent        float64 `json:"total_lent"`
	TotalCollected   float64 `json:"total_collected"`
	TotalOutstanding float64 `json:"total_outstanding"`
	PaymentCount     int64   `json:"payment_count"`
}

// StatusSlice is one bucket of the loan status distribution
type StatusSlice struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// TopClient is one row of the top-clients-by-volume ranking
type TopClient struct {
	ClientID    uint    `json:"client_id"`
	Name        string  `json:"name"`
	LoanCount   int64   `json:"loan_count"`
	TotalAmount float64 `json:"total_amount"`
}

// MonthlyTrend aggregates portfolio activity for one calendar month
type MonthlyTrend struct {
	Month          string  `json:"month"` // YYYY-MM
	LoansIssued    int64   `json:"loans_issued"`
	AmountIssued   float64 `json:"amount_issued"`
	PaymentsMade   int64   `json:"payments_made"`
	AmountPaid     float64 `json:"amount_paid"`
	OverdueAtClose int64   `json:"overdue_at_close"`
}
