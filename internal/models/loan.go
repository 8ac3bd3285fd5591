package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jcastellanos/prestamos-api/internal/finance"
)

// Loan represents a loan granted to a client
type Loan struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	GUID         string     `gorm:"uniqueIndex" json:"guid"`
	ClientID     uint       `gorm:"not null;index" json:"client_id"`
	Amount       float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	IssuedDate   time.Time  `gorm:"type:date;not null" json:"issued_date"`
	DueDate      time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	InterestRate *float64   `gorm:"type:decimal(6,2)" json:"interest_rate"` // annual percent, nil means interest-free
	Status       string     `gorm:"default:pending;not null;index" json:"status"`
	PaidAt       *time.Time `json:"paid_at"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Associations
	Client   Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Payments []Payment `gorm:"foreignKey:LoanID" json:"payments,omitempty"`
}

// TableName specifies the table name for Loan
func (Loan) TableName() string {
	return "loans"
}

// Loan status constants. Status is derived, never authoritative: it is
// recomputed from (due date, outstanding balance) whenever payments change.
const (
	LoanStatusPending = string(finance.StatusPending)
	LoanStatusOverdue = string(finance.StatusOverdue)
	LoanStatusPaid    = string(finance.StatusPaid)
)

// BeforeCreate hook for setting defaults
func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.GUID == "" {
		l.GUID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = LoanStatusPending
	}
	return nil
}

// TotalObligation returns principal plus the flat interest charge
func (l *Loan) TotalObligation() float64 {
	rate := 0.0
	if l.InterestRate != nil {
		rate = *l.InterestRate
	}
	return finance.Round2(l.Amount * (1 + rate/100))
}

// OutstandingBalance reconciles the balance against the loaded payments.
// Payments must be preloaded; callers that only have the loan row should go
// through LoanService instead.
func (l *Loan) OutstandingBalance() float64 {
	amounts := make([]float64, 0, len(l.Payments))
	for _, p := range l.Payments {
		amounts = append(amounts, p.Amount)
	}
	return finance.ReconcileBalance(l.Amount, l.InterestRate, amounts)
}

// TotalPaid sums the loaded payments
func (l *Loan) TotalPaid() float64 {
	var total float64
	for _, p := range l.Payments {
		total += p.Amount
	}
	return finance.Round2(total)
}

// IsOverdue returns true if the due date has passed and the loan is not paid
func (l *Loan) IsOverdue() bool {
	return l.Status == LoanStatusOverdue
}

// OverdueDays returns the number of days past the due date
func (l *Loan) OverdueDays() int {
	if l.Status != LoanStatusOverdue {
		return 0
	}
	days := int(time.Since(l.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// LoanResponse is the JSON response format for loans
type LoanResponse struct {
	ID             uint              `json:"id"`
	GUID           string            `json:"guid"`
	ClientID       uint              `json:"client_id"`
	ClientName     string            `json:"client_name,omitempty"`
	ClientIdentity string            `json:"client_identity,omitempty"`
	Amount         float64           `json:"amount"`
	InterestRate   *float64          `json:"interest_rate"`
	IssuedDate     time.Time         `json:"issued_date"`
	DueDate        time.Time         `json:"due_date"`
	Status         string            `json:"status"`
	TotalPaid      float64           `json:"total_paid"`
	Outstanding    float64           `json:"outstanding"`
	OverdueDays    int               `json:"overdue_days"`
	PaidAt         *time.Time        `json:"paid_at"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Payments       []PaymentResponse `json:"payments,omitempty"`
}

// ToResponse converts Loan to LoanResponse
func (l *Loan) ToResponse() LoanResponse {
	resp := LoanResponse{
		ID:           l.ID,
		GUID:         l.GUID,
		ClientID:     l.ClientID,
		Amount:       l.Amount,
		InterestRate: l.InterestRate,
		IssuedDate:   l.IssuedDate,
		DueDate:      l.DueDate,
		Status:       l.Status,
		TotalPaid:    l.TotalPaid(),
		Outstanding:  l.OutstandingBalance(),
		OverdueDays:  l.OverdueDays(),
		PaidAt:       l.PaidAt,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}

	if l.Client.ID != 0 {
		resp.ClientName = l.Client.Name
		resp.ClientIdentity = l.Client.Identity
	}

	for _, p := range l.Payments {
		resp.Payments = append(resp.Payments, p.ToResponse())
	}

	return resp
}
