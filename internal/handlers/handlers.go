package handlers

import (
	"github.com/jcastellanos/prestamos-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	User      *UserHandler
	Client    *ClientHandler
	Loan      *LoanHandler
	Payment   *PaymentHandler
	Analytics *AnalyticsHandler
	Report    *ReportHandler
	Audit     *AuditHandler
	Job       *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Auth:      NewAuthHandler(svcs.Auth),
		User:      NewUserHandler(svcs.User),
		Client:    NewClientHandler(svcs.Client, svcs.Loan),
		Loan:      NewLoanHandler(svcs.Loan, svcs.Schedule),
		Payment:   NewPaymentHandler(svcs.Payment),
		Analytics: NewAnalyticsHandler(svcs.Analytics, svcs.Export),
		Report:    NewReportHandler(svcs.Report),
		Audit:     NewAuditHandler(svcs.Audit),
		Job:       NewJobHandler(svcs.Job),
	}
}
