package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Client       ClientRepository
	Loan         LoanRepository
	Payment      PaymentRepository
	RefreshToken RefreshTokenRepository
	Audit        AuditRepository
	Analytics    AnalyticsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Client:       NewClientRepository(db),
		Loan:         NewLoanRepository(db),
		Payment:      NewPaymentRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Audit:        NewAuditRepository(db),
		Analytics:    NewAnalyticsRepository(db),
	}
}
