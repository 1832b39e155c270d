package services

import (
	"testing"

	"expensetracker/internal/testutil"
)

func TestFindCategoryByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategory(t, db, "Food")

		cat, err := svc.FindCategoryByID(created.ID)
		testutil.AssertNoError(t, err)

		if cat.Name != "Food" {
			t.Errorf("expected Food, got %s", cat.Name)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.FindCategoryByID(99999)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("soft_deleted_is_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategory(t, db, "Gone")
		if err := db.Delete(created).Error; err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		_, err := svc.FindCategoryByID(created.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestFindCategoryByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	created := testutil.CreateTestCategory(t, db, "Transport")

	cat, err := svc.FindCategoryByName("  Transport ")
	testutil.AssertNoError(t, err)
	if cat.ID != created.ID {
		t.Errorf("expected category %d, got %d", created.ID, cat.ID)
	}

	_, err = svc.FindCategoryByName("")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

	_, err = svc.FindCategoryByName("Nope")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestEnsureDefaultCategories(t *testing.T) {
	db, _ := testutil.SetupTestDBWithCategories(t, "Food")
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	testutil.AssertNoError(t, svc.EnsureDefaultCategories())
	// Running twice must not duplicate anything.
	testutil.AssertNoError(t, svc.EnsureDefaultCategories())

	categories, err := svc.FindAllCategories()
	testutil.AssertNoError(t, err)

	if len(categories) != len(DefaultCategories) {
		t.Fatalf("expected %d categories, got %d", len(DefaultCategories), len(categories))
	}
	for i := 1; i < len(categories); i++ {
		if categories[i-1].Name > categories[i].Name {
			t.Errorf("expected categories ordered by name, got %q before %q", categories[i-1].Name, categories[i].Name)
		}
	}
}
