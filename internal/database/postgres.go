package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"social-service/internal/config"
	"social-service/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		AllowGlobalUpdate:                        false,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	}
}

// Open connects to the configured driver and migrates the schema.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgresConnection(cfg.DSN())
	case "sqlite":
		return NewSQLiteConnection(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func NewPostgresConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table and the indexes auto-migration
// cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			slog.Warn("Tables already exist, continuing with existing schema", "error", err)
		} else {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if err := addIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}

func addIndexes(db *gorm.DB) error {
	statements := []string{
		// at most one pending request per ordered pair
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_friend_requests_pending_pair ON friend_requests (requester_id, recipient_id) WHERE status = 'pending'",
		"CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages (sender_id, receiver_id, sent_at)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications (user_id, is_read)",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
