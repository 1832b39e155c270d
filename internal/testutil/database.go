// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"expensetracker/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// schema lists the tables every test database carries.
var schema = []interface{}{
	&models.Client{},
	&models.Category{},
	&models.Expense{},
	&models.AuditLog{},
}

var dbSeq atomic.Int64

// SetupTestDB opens a private in-memory SQLite database and migrates the schema.
// Each call gets its own named shared-cache database so tests never see each
// other's rows.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:expenses_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(schema...); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// SetupTestDBWithCategories is SetupTestDB plus one category row per name.
func SetupTestDBWithCategories(t *testing.T, names ...string) (*gorm.DB, []*models.Category) {
	t.Helper()

	db := SetupTestDB(t)
	categories := make([]*models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, CreateTestCategory(t, db, name))
	}
	return db, categories
}

// TeardownTestDB closes the connection pool behind db.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("close test database: %v", err)
	}
}
