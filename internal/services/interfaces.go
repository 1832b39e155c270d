package services

import (
	"expensetracker/internal/models"
)

// ClientServicer defines the contract for client accounts and login.
type ClientServicer interface {
	RegisterClient(userName, email, password string) (*models.Client, error)
	AttemptLogin(email, password string) (*models.Client, error)
	FindClientByID(id uint) (*models.Client, error)
}

// CategoryServicer defines the contract for category lookups.
type CategoryServicer interface {
	FindCategoryByID(id uint) (*models.Category, error)
	FindCategoryByName(name string) (*models.Category, error)
	FindAllCategories() ([]models.Category, error)
	EnsureDefaultCategories() error
}

// ExpenseInput is the payload accepted by Save and Update. Category is a
// category name; an empty or unknown name stores the expense uncategorized.
// Amount is in cents.
type ExpenseInput struct {
	ExpenseID   uint
	ClientID    uint
	Amount      int64
	Description string
	DateTime    string
	Category    string
}

// ExpenseFilter holds optional criteria for FindFilterResult. Nil or empty
// fields are ignored; the rest are ANDed. Amount bounds are in cents.
type ExpenseFilter struct {
	Category  string
	MinAmount *int64
	MaxAmount *int64
	FromDate  string
	ToDate    string
	Year      int
	Month     int
}

// ExpenseServicer defines the contract for expense persistence.
type ExpenseServicer interface {
	Save(input ExpenseInput) (*models.Expense, error)
	FindAllExpensesByClientID(clientID uint) ([]models.Expense, error)
	FindExpenseByID(clientID, expenseID uint) (*models.Expense, error)
	Update(input ExpenseInput) (*models.Expense, error)
	DeleteExpenseByID(clientID, expenseID uint) error
	FindFilterResult(clientID uint, filter ExpenseFilter) ([]models.Expense, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(clientID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
