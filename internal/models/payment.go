package models

import (
	"time"
)

// Payment represents a payment recorded against a loan
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LoanID      uint      `gorm:"not null;index" json:"loan_id"`
	PaymentDate time.Time `gorm:"type:date;not null;index" json:"payment_date"`
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Loan Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID          uint      `json:"id"`
	LoanID      uint      `json:"loan_id"`
	PaymentDate time.Time `json:"payment_date"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		LoanID:      p.LoanID,
		PaymentDate: p.PaymentDate,
		Amount:      p.Amount,
		CreatedAt:   p.CreatedAt,
	}
}
