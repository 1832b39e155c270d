package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/money"
)

// FilterAllCategories matches every category in ExpenseFilter.Category.
const FilterAllCategories = "all"

// expenseService handles expense persistence.
type expenseService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, categoryService CategoryServicer) ExpenseServicer {
	return &expenseService{
		db:              db,
		categoryService: categoryService,
	}
}

// Save creates a new expense owned by input.ClientID.
func (s *expenseService) Save(input ExpenseInput) (*models.Expense, error) {
	if err := validateExpenseInput(input); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(input.Category)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ClientID:    input.ClientID,
		CategoryID:  categoryID,
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		DateTime:    strings.TrimSpace(input.DateTime),
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// FindAllExpensesByClientID returns every expense of a client, newest first.
func (s *expenseService) FindAllExpensesByClientID(clientID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Where("client_id = ?", clientID).
		Order("date_time DESC").Order("id DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// FindExpenseByID retrieves an expense owned by the given client.
func (s *expenseService) FindExpenseByID(clientID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND client_id = ?", expenseID, clientID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// Update replaces the editable fields of an existing expense.
func (s *expenseService) Update(input ExpenseInput) (*models.Expense, error) {
	if err := validateExpenseInput(input); err != nil {
		return nil, err
	}

	expense, err := s.FindExpenseByID(input.ClientID, input.ExpenseID)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(input.Category)
	if err != nil {
		return nil, err
	}

	// Select forces zero values and a nil category to be written.
	expense.CategoryID = categoryID
	expense.Amount = input.Amount
	expense.Description = strings.TrimSpace(input.Description)
	expense.DateTime = strings.TrimSpace(input.DateTime)
	if err := s.db.Model(expense).
		Select("category_id", "amount", "description", "date_time").
		Updates(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpenseByID soft-deletes an expense owned by the given client.
func (s *expenseService) DeleteExpenseByID(clientID, expenseID uint) error {
	result := s.db.Where("id = ? AND client_id = ?", expenseID, clientID).Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// FindFilterResult returns the client's expenses matching every set criterion.
func (s *expenseService) FindFilterResult(clientID uint, filter ExpenseFilter) ([]models.Expense, error) {
	q := s.db.Model(&models.Expense{}).Where("client_id = ?", clientID)
	q, err := applyExpenseFilter(q, filter)
	if err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := q.Order("date_time DESC").Order("id DESC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

func applyExpenseFilter(q *gorm.DB, f ExpenseFilter) (*gorm.DB, error) {
	switch category := strings.TrimSpace(f.Category); {
	case category == "" || strings.EqualFold(category, FilterAllCategories):
	case strings.EqualFold(category, models.UncategorizedName):
		q = q.Where("category_id IS NULL")
	default:
		q = q.Where("category_id IN (SELECT id FROM categories WHERE name = ? AND deleted_at IS NULL)", category)
	}

	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if f.MinAmount != nil && f.MaxAmount != nil && *f.MinAmount > *f.MaxAmount {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "minimum amount exceeds maximum amount")
	}

	// Stored values are ISO strings, so lexical comparison on the date
	// prefix is chronological.
	if f.FromDate != "" {
		if _, err := time.Parse(time.DateOnly, f.FromDate); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from date must be YYYY-MM-DD")
		}
		q = q.Where("date_time >= ?", f.FromDate)
	}
	if f.ToDate != "" {
		to, err := time.Parse(time.DateOnly, f.ToDate)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "to date must be YYYY-MM-DD")
		}
		q = q.Where("date_time < ?", to.AddDate(0, 0, 1).Format(time.DateOnly))
	}

	switch {
	case f.Month != 0 && (f.Month < 1 || f.Month > 12):
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	case f.Year != 0 && f.Month != 0:
		q = q.Where("date_time LIKE ?", fmt.Sprintf("%04d-%02d-%%", f.Year, f.Month))
	case f.Year != 0:
		q = q.Where("date_time LIKE ?", fmt.Sprintf("%04d-%%", f.Year))
	case f.Month != 0:
		q = q.Where("date_time LIKE ?", fmt.Sprintf("____-%02d-%%", f.Month))
	}
	return q, nil
}

// resolveCategory maps a category name to its id. Empty and unknown names
// leave the expense uncategorized.
func (s *expenseService) resolveCategory(name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, models.UncategorizedName) {
		return nil, nil
	}
	category, err := s.categoryService.FindCategoryByName(name)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category.ID, nil
}

func validateExpenseInput(input ExpenseInput) error {
	if input.ClientID == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "client ID is required")
	}
	if input.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.Amount > money.MaxCents {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount exceeds "+money.Format(money.MaxCents))
	}
	if strings.TrimSpace(input.DateTime) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date and time are required")
	}
	return nil
}
