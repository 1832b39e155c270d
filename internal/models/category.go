package models

// UncategorizedName is the display name used when an expense has no resolvable category.
const UncategorizedName = "Uncategorized"

// Category is a classification label shared by all clients.
type Category struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}
