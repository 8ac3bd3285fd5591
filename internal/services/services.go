package services

import (
	"github.com/jcastellanos/prestamos-api/internal/config"
	"github.com/jcastellanos/prestamos-api/internal/jobs"
	"github.com/jcastellanos/prestamos-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth      *AuthService
	User      *UserService
	Client    *ClientService
	Loan      *LoanService
	Payment   *PaymentService
	Schedule  *ScheduleService
	Analytics *AnalyticsService
	Export    *ExportService
	Report    *ReportService
	Audit     *AuditService
	Email     *EmailService
	Job       *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos.Audit)
	emailSvc := NewEmailService(cfg)
	analyticsSvc := NewAnalyticsService(repos.Analytics)
	loanSvc := NewLoanService(repos.Loan, repos.Client, repos.Payment, auditSvc)

	return &Services{
		Auth:      NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:      NewUserService(repos.User, emailSvc, auditSvc),
		Client:    NewClientService(repos.Client, auditSvc),
		Loan:      loanSvc,
		Payment:   NewPaymentService(repos.Payment, repos.Loan, loanSvc, auditSvc),
		Schedule:  NewScheduleService(),
		Analytics: analyticsSvc,
		Export:    NewExportService(analyticsSvc),
		Report:    NewReportService(repos.Loan, repos.Payment, repos.Client),
		Audit:     auditSvc,
		Email:     emailSvc,
		Job:       NewJobService(worker),
	}
}
