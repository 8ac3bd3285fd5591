package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/jcastellanos/prestamos-api/internal/repository"
)

// ReportService produces operational reports over loans and payments
type ReportService struct {
	loanRepo    repository.LoanRepository
	paymentRepo repository.PaymentRepository
	clientRepo  repository.ClientRepository
}

func NewReportService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
) *ReportService {
	return &ReportService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
	}
}

// GenerateLoansCSV generates a CSV report of loans, optionally filtered by status
func (s *ReportService) GenerateLoansCSV(ctx context.Context, status string) (*bytes.Buffer, error) {
	query := &repository.LoanQuery{
		ListQuery: repository.NewListQuery(),
		Status:    status,
	}
	query.PerPage = 0 // full dump

	loans, _, err := s.loanRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"ID", "Cliente", "Identidad", "Monto", "Tasa Anual", "Emisión", "Vencimiento", "Estado", "Pagado", "Saldo"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range loans {
		l := &loans[i]

		clientName := "N/A"
		clientIdentity := "N/A"
		if l.Client.ID != 0 {
			clientName = l.Client.Name
			clientIdentity = l.Client.Identity
		}

		rateStr := "Sin interés"
		if l.InterestRate != nil {
			rateStr = fmt.Sprintf("%.2f%%", *l.InterestRate)
		}

		record := []string{
			fmt.Sprintf("%d", l.ID),
			clientName,
			clientIdentity,
			fmt.Sprintf("%.2f", l.Amount),
			rateStr,
			l.IssuedDate.Format("2006-01-02"),
			l.DueDate.Format("2006-01-02"),
			statusLabel(l.Status),
			fmt.Sprintf("%.2f", l.TotalPaid()),
			fmt.Sprintf("%.2f", l.OutstandingBalance()),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b, nil
}

// GeneratePaymentsCSV generates a CSV report of payments in a date range
func (s *ReportService) GeneratePaymentsCSV(ctx context.Context, startDate, endDate string) (*bytes.Buffer, error) {
	query := repository.NewListQuery()
	query.PerPage = 0
	if startDate != "" {
		query.Filters["start_date"] = startDate
	}
	if endDate != "" {
		query.Filters["end_date"] = endDate
	}

	payments, _, err := s.paymentRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Pago ID", "Préstamo", "Cliente", "Identidad", "Monto", "Fecha Pago"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range payments {
		p := &payments[i]

		clientName := "N/A"
		clientIdentity := "N/A"
		if p.Loan.ID != 0 && p.Loan.Client.ID != 0 {
			clientName = p.Loan.Client.Name
			clientIdentity = p.Loan.Client.Identity
		}

		record := []string{
			fmt.Sprintf("%d", p.ID),
			fmt.Sprintf("%d", p.LoanID),
			clientName,
			clientIdentity,
			fmt.Sprintf("%.2f", p.Amount),
			p.PaymentDate.Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, nil
}

// GenerateOverdueLoansCSV generates a CSV of overdue loans for collection work
func (s *ReportService) GenerateOverdueLoansCSV(ctx context.Context) (*bytes.Buffer, error) {
	loans, err := s.loanRepo.FindOverdueWithClient(ctx)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"ID", "Cliente", "Teléfono", "Fecha Vencimiento", "Días Mora", "Monto", "Saldo"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range loans {
		l := &loans[i]
		daysOverdue := int(time.Since(l.DueDate).Hours() / 24)

		clientName := "N/A"
		phone := "N/A"
		if l.Client.ID != 0 {
			clientName = l.Client.Name
			phone = l.Client.Phone
		}

		record := []string{
			fmt.Sprintf("%d", l.ID),
			clientName,
			phone,
			l.DueDate.Format("2006-01-02"),
			fmt.Sprintf("%d", daysOverdue),
			fmt.Sprintf("%.2f", l.Amount),
			fmt.Sprintf("%.2f", l.OutstandingBalance()),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, nil
}

// Helper to generate PDF from HTML template
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	// Try path relative to project root (Prod)
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		// Try path relative to package (Test)
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

// GenerateLoanStatementPDF generates a PDF statement for a loan: its terms,
// projected schedule disclosure and full payment history.
func (s *ReportService) GenerateLoanStatementPDF(ctx context.Context, loanID uint) (*bytes.Buffer, error) {
	loan, err := s.loanRepo.FindByIDWithDetails(ctx, loanID)
	if err != nil {
		return nil, err
	}

	type PaymentData struct {
		Number      int
		PaymentDate string
		Amount      string
	}

	type StatementData struct {
		ClientName     string
		ClientIdentity string
		ClientPhone    string
		GUID           string
		Amount         string
		InterestRate   string
		Obligation     string
		IssuedDate     string
		DueDate        string
		Status         string
		TotalPaid      string
		Outstanding    string
		Date           string
		Payments       []PaymentData
	}

	rateStr := "Sin interés"
	if loan.InterestRate != nil {
		rateStr = fmt.Sprintf("%.2f%% anual", *loan.InterestRate)
	}

	var payments []PaymentData
	for i := range loan.Payments {
		p := &loan.Payments[i]
		payments = append(payments, PaymentData{
			Number:      i + 1,
			PaymentDate: p.PaymentDate.Format("02/01/2006"),
			Amount:      fmt.Sprintf("L%.2f", p.Amount),
		})
	}

	data := StatementData{
		ClientName:     loan.Client.Name,
		ClientIdentity: loan.Client.Identity,
		ClientPhone:    loan.Client.Phone,
		GUID:           loan.GUID,
		Amount:         fmt.Sprintf("L%.2f", loan.Amount),
		InterestRate:   rateStr,
		Obligation:     fmt.Sprintf("L%.2f", loan.TotalObligation()),
		IssuedDate:     loan.IssuedDate.Format("02/01/2006"),
		DueDate:        loan.DueDate.Format("02/01/2006"),
		Status:         statusLabel(loan.Status),
		TotalPaid:      fmt.Sprintf("L%.2f", loan.TotalPaid()),
		Outstanding:    fmt.Sprintf("L%.2f", loan.OutstandingBalance()),
		Date:           time.Now().Format("02/01/2006"),
		Payments:       payments,
	}

	return s.generatePDF("loan_statement.html", data)
}

// GenerateClientStatementPDF generates a PDF statement covering every loan of a client
func (s *ReportService) GenerateClientStatementPDF(ctx context.Context, clientID uint) (*bytes.Buffer, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	type LoanData struct {
		GUID        string
		Amount      string
		IssuedDate  string
		DueDate     string
		Status      string
		TotalPaid   string
		Outstanding string
	}

	type StatementData struct {
		ClientName     string
		ClientIdentity string
		Date           string
		Loans          []LoanData
		TotalOwed      string
	}

	var loanData []LoanData
	var totalOwed float64
	for i := range loans {
		l := &loans[i]
		outstanding := l.OutstandingBalance()
		totalOwed += outstanding
		loanData = append(loanData, LoanData{
			GUID:        l.GUID,
			Amount:      fmt.Sprintf("L%.2f", l.Amount),
			IssuedDate:  l.IssuedDate.Format("02/01/2006"),
			DueDate:     l.DueDate.Format("02/01/2006"),
			Status:      statusLabel(l.Status),
			TotalPaid:   fmt.Sprintf("L%.2f", l.TotalPaid()),
			Outstanding: fmt.Sprintf("L%.2f", outstanding),
		})
	}

	data := StatementData{
		ClientName:     client.Name,
		ClientIdentity: client.Identity,
		Date:           time.Now().Format("02/01/2006"),
		Loans:          loanData,
		TotalOwed:      fmt.Sprintf("L%.2f", totalOwed),
	}

	return s.generatePDF("client_statement.html", data)
}
