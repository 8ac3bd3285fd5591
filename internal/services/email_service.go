package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/jcastellanos/prestamos-api/internal/config"
	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// OverdueLoanData is one row of the overdue digest email
type OverdueLoanData struct {
	ClientName  string
	GUID        string
	Outstanding string
	DueDate     string
	OverdueDays int
}

// SendOverdueDigest emails the list of overdue loans to the configured
// notification address. Called by the scheduled status sweep.
func (s *EmailService) SendOverdueDigest(ctx context.Context, loans []models.Loan) error {
	if s.config.ResendAPIKey == "" || s.config.NotifyEmail == "" || len(loans) == 0 {
		return nil
	}

	var rows []OverdueLoanData
	for i := range loans {
		l := &loans[i]
		rows = append(rows, OverdueLoanData{
			ClientName:  l.Client.Name,
			GUID:        l.GUID,
			Outstanding: fmt.Sprintf("L%.2f", l.OutstandingBalance()),
			DueDate:     l.DueDate.Format("02/01/2006"),
			OverdueDays: l.OverdueDays(),
		})
	}

	data := struct {
		Count int
		Loans []OverdueLoanData
	}{
		Count: len(rows),
		Loans: rows,
	}

	body, err := s.renderTemplate("overdue_loans.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{s.config.NotifyEmail},
		Subject: fmt.Sprintf("Préstamos Vencidos (%d préstamos)", len(rows)),
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", s.config.NotifyEmail, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Préstamos Vencidos (%d préstamos)", s.config.NotifyEmail, len(rows)))
	return nil
}

// SendAccountCreated welcomes a newly created operator account
func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	if user.Email == "" {
		return nil
	}

	data := struct {
		Name     string
		Username string
		Role     string
	}{
		Name:     user.FullName,
		Username: user.Username,
		Role:     user.Role,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{user.Email},
		Subject: "Cuenta creada",
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", user.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Cuenta creada", user.Email))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
