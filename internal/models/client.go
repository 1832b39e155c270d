package models

import "time"

// Client is an application user. Expenses are always owned by exactly one client.
type Client struct {
	Base
	UserName            string     `gorm:"not null" json:"user_name"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	Expenses            []Expense  `gorm:"foreignKey:ClientID" json:"expenses,omitempty"`
}
