package main

import (
	"log"
	"log/slog"

	"social-service/internal/config"
	"social-service/internal/database"
	"social-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.New(cfg.Log.Level, cfg.Log.Format)

	slog.Info("Starting database migration...", "driver", cfg.Database.Driver)

	// Opening the database runs auto-migration and index creation.
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	slog.Info("Database migration completed successfully!")
}
