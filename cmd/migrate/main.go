// This file is used to create or update the database schema
// How to run:
// go run cmd/migrate/main.go                # Migrate the database configured in the environment
// go run cmd/migrate/main.go -retries 10    # Wait longer for the database to come up
package main

import (
	"flag"
	"time"

	"github.com/motorepair/admin/config"
	"github.com/motorepair/admin/internal/db"
	"github.com/motorepair/admin/internal/logger"
)

func main() {
	var (
		retries   = flag.Int("retries", 5, "Number of connection retries")
		retryWait = flag.Duration("retry-wait", 3*time.Second, "Wait time between retries")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.InitializeAndConfigure(cfg.LogLevel)

	// db.New migrates as part of opening the connection
	for attempt := 1; ; attempt++ {
		database, err := db.New(cfg.DBOptions())
		if err == nil {
			if sqlDB, err := database.DB(); err == nil {
				_ = sqlDB.Close()
			}
			logger.Info("Migration completed")
			return
		}
		if attempt >= *retries {
			logger.Fatalf("Migration failed after %d attempts: %v", attempt, err)
		}
		logger.Warnf("Migration attempt %d failed, retrying in %s: %v", attempt, *retryWait, err)
		time.Sleep(*retryWait)
	}
}
