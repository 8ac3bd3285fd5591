package models

import (
	"time"
)

// Client represents a borrower registered in the system
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Identity  string    `gorm:"uniqueIndex;not null" json:"identity"` // national ID (cédula)
	Phone     string    `gorm:"not null" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Loans []Loan `gorm:"foreignKey:ClientID" json:"loans,omitempty"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// ClientResponse is the JSON response format for clients
type ClientResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Identity  string    `json:"identity"`
	Phone     string    `json:"phone"`
	LoanCount int       `json:"loan_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts Client to ClientResponse
func (c *Client) ToResponse() ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Identity:  c.Identity,
		Phone:     c.Phone,
		LoanCount: len(c.Loans),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
