package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"expensetracker/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture client.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestClient creates a client with a hashed password and unique email.
func CreateTestClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()
	email := fmt.Sprintf("client%d@test.com", nextID())
	return CreateTestClientWithEmail(t, db, email)
}

// CreateTestClientWithEmail creates a client with the given email.
func CreateTestClientWithEmail(t *testing.T, db *gorm.DB, email string) *models.Client {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	client := &models.Client{
		UserName: "Test Client",
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestCategory creates a category with the given name.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense inserts an expense directly, bypassing service validation,
// so tests can store malformed date-times or dangling category ids.
func CreateTestExpense(t *testing.T, db *gorm.DB, clientID uint, categoryID *uint, amountCents int64, dateTime string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		ClientID:    clientID,
		CategoryID:  categoryID,
		Amount:      amountCents,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		DateTime:    dateTime,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
