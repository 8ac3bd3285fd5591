package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an operator account in the system
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Role         string     `gorm:"default:viewer;not null" json:"role"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	LastAccessAt *time.Time `json:"last_access_at"`
	Active       bool       `gorm:"default:true" json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Role constants, from least to most privileged
const (
	RoleViewer   = "viewer"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleViewer
	}
	return nil
}

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if the account has not been deactivated
func (u *User) IsActive() bool {
	return u.Active
}

// roleLevel orders roles for permission checks: viewer < operator < admin.
func roleLevel(role string) int {
	switch role {
	case RoleViewer:
		return 1
	case RoleOperator:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// HasLevel returns true if the user's role is at least the required role
func (u *User) HasLevel(required string) bool {
	return roleLevel(u.Role) >= roleLevel(required)
}

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID           uint       `json:"id"`
	Username     string     `json:"username"`
	Role         string     `json:"role"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	LastAccessAt *time.Time `json:"last_access_at"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Role:         u.Role,
		FullName:     u.FullName,
		Email:        u.Email,
		LastAccessAt: u.LastAccessAt,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
	}
}
