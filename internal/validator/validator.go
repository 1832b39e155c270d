// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"expensetracker/internal/money"
	"expensetracker/internal/presenter"
)

const maxCategoryNameLength = 50

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso_datetime", validateISODateTime)
		_ = v.RegisterValidation("category_name", validateCategoryName)
		_ = v.RegisterValidation("money_amount", validateMoneyAmount)
	}
}

func validateISODateTime(fl validator.FieldLevel) bool {
	_, err := presenter.ParseLocalDateTime(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// validateMoneyAmount accepts a positive decimal string that converts to
// whole cents within money.MaxCents.
func validateMoneyAmount(fl validator.FieldLevel) bool {
	cents, err := money.ParseCents(fl.Field().String())
	return err == nil && cents > 0
}

// validateCategoryName accepts an empty name (uncategorized) or a short
// printable label.
func validateCategoryName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return false
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
