package testutil

import (
	"testing"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

// AssertAppError fails unless err carries the expected AppError code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error %s, got nil", expectedCode)
	}
	if !apperrors.Is(err, &apperrors.AppError{Code: expectedCode}) {
		t.Fatalf("expected error %s, got %T: %v", expectedCode, err, err)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertExpenseCount checks how many live (not soft-deleted) expenses a client owns.
func AssertExpenseCount(t *testing.T, db *gorm.DB, clientID uint, want int64) {
	t.Helper()

	var got int64
	if err := db.Model(&models.Expense{}).Where("client_id = ?", clientID).Count(&got).Error; err != nil {
		t.Fatalf("failed to count expenses: %v", err)
	}
	if got != want {
		t.Errorf("client %d: expected %d expenses, got %d", clientID, want, got)
	}
}
