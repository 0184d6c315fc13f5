package main

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"social-service/internal/apperror"
	"social-service/internal/auth"
	"social-service/internal/config"
	"social-service/internal/database"
	"social-service/internal/models"
	"social-service/internal/repositories/postgres"
	"social-service/internal/services"
	"social-service/internal/storage"
	"social-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.New(cfg.Log.Level, cfg.Log.Format)

	slog.Info("Starting database seeding...")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	ctx := context.Background()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	friendRepo := postgres.NewFriendRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo,
		auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpirationTime),
		services.NewMediaService(storage.NewDisabledStore(), 0))
	friendService := services.NewFriendService(db, userRepo, friendRepo, notificationRepo, nil, nil)

	// Seed initial users
	slog.Info("Creating initial users...")

	testUsers := []models.RegisterRequest{
		{Name: "admin", Email: "admin@social.local", Password: "123456"},
		{Name: "alice", Email: "alice@social.local", Password: "123456"},
		{Name: "bob", Email: "bob@social.local", Password: "123456"},
		{Name: "charlie", Email: "charlie@social.local", Password: "123456"},
	}

	ids := make(map[string]uint, len(testUsers))
	for i := range testUsers {
		req := testUsers[i]
		profile, err := userService.Register(ctx, &req)
		if err != nil {
			if !errors.Is(err, apperror.ErrConflict) {
				log.Fatal("Failed to create user:", err)
			}
			existing, err := userRepo.FindByEmail(ctx, req.Email)
			if err != nil {
				log.Fatal("Failed to load existing user:", err)
			}
			slog.Warn("User already exists", "name", req.Name)
			ids[req.Name] = existing.ID
			continue
		}
		slog.Info("Created user", "name", req.Name, "id", profile.ID)
		ids[req.Name] = profile.ID
	}

	if err := db.Model(&models.User{}).Where("id = ?", ids["admin"]).Update("is_super_user", true).Error; err != nil {
		slog.Warn("Failed to flag admin as super user", "error", err)
	}

	// alice and bob are friends; charlie has a pending request to alice
	slog.Info("Creating friendships...")
	if req, err := friendService.SendRequest(ctx, ids["alice"], ids["bob"]); err == nil {
		if _, err := friendService.AcceptRequest(ctx, req.ID, ids["bob"]); err != nil {
			slog.Warn("Failed to accept seed friend request", "error", err)
		}
	} else {
		slog.Warn("alice -> bob request might already exist", "error", err)
	}
	if _, err := friendService.SendRequest(ctx, ids["charlie"], ids["alice"]); err != nil {
		slog.Warn("charlie -> alice request might already exist", "error", err)
	}

	slog.Info("Database seeding completed successfully!")
}
