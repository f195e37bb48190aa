// Package test provides utilities for setting up and running tests
package test

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/motorepair/admin/internal/db"
)

// NewInMemoryDB creates a new, isolated in-memory SQLite database.
// Errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func NewInMemoryDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// RunMigrations runs all database migrations for the test database.
func RunMigrations(database *gorm.DB) error {
	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// CloseDB closes the database connection
func CloseDB(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}
