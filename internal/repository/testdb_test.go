package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clickempire/click-empire/internal/models"
)

// setupTestDB creates an in-memory SQLite database for testing. The pool is
// pinned to one connection so concurrent test goroutines serialize against
// the same in-memory database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db.Exec("PRAGMA foreign_keys = ON")

	wrapped := &DB{db}
	if err := wrapped.AutoMigrate(); err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return wrapped
}

// createTestUser creates a profile in the database.
func createTestUser(t *testing.T, db *DB, username string, premium bool) *models.UserProfile {
	t.Helper()

	user := &models.UserProfile{
		Username:  username,
		IsPremium: premium,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// createTestItem creates an item definition in the database.
func createTestItem(t *testing.T, db *DB, name, itemType, rarity string) *models.Item {
	t.Helper()

	item := &models.Item{
		Name:        name,
		Description: name,
		ItemType:    itemType,
		Rarity:      rarity,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return item
}
