package testutil_test

import (
	"testing"

	"expensetracker/internal/errors"
	"expensetracker/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"clients", "categories", "expenses", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestClient(t, first)

	var count int64
	if err := second.Table("clients").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected isolated database, found %d clients", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	if client.ID == 0 {
		t.Fatal("client should have a non-zero ID")
	}

	category := testutil.CreateTestCategory(t, db, "Food")
	if category.Name != "Food" {
		t.Errorf("expected category Food, got %s", category.Name)
	}

	expense := testutil.CreateTestExpense(t, db, client.ID, &category.ID, 1250, "not-a-date")
	if expense.DateTime != "not-a-date" {
		t.Errorf("expected raw date-time to be stored, got %q", expense.DateTime)
	}
	if expense.CategoryID == nil || *expense.CategoryID != category.ID {
		t.Errorf("expected category %d, got %v", category.ID, expense.CategoryID)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrExpenseNotFound, "custom message")
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}

func TestAssertExpenseCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	testutil.AssertExpenseCount(t, db, client.ID, 0)

	expense := testutil.CreateTestExpense(t, db, client.ID, nil, 3, "2024-01-01T00:00")
	testutil.CreateTestExpense(t, db, client.ID, nil, 4, "2024-01-02T00:00")
	testutil.AssertExpenseCount(t, db, client.ID, 2)

	if err := db.Delete(expense).Error; err != nil {
		t.Fatalf("failed to delete expense: %v", err)
	}
	testutil.AssertExpenseCount(t, db, client.ID, 1)
}

func TestSetupTestDBWithCategories(t *testing.T) {
	db, categories := testutil.SetupTestDBWithCategories(t, "Food", "Travel")
	defer testutil.TeardownTestDB(t, db)

	if len(categories) != 2 || categories[0].Name != "Food" || categories[1].ID == 0 {
		t.Fatalf("unexpected categories: %+v", categories)
	}
	var count int64
	if err := db.Table("categories").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 categories, got %d", count)
	}
}
