package models

// Expense is a single recorded expenditure.
//
// DateTime holds an ISO-8601 local date-time string exactly as submitted
// (for example "2024-01-05T09:00:00"). It is not guaranteed to parse.
// Amount is in cents.
type Expense struct {
	Base
	ClientID    uint    `gorm:"not null;index" json:"client_id"`
	CategoryID  *uint   `gorm:"index" json:"category_id,omitempty"`
	Amount      int64   `gorm:"type:bigint;not null" json:"amount"`
	Description string  `json:"description"`
	DateTime    string  `gorm:"column:date_time;not null" json:"date_time"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
