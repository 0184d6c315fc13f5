package main

// @title           Social Service API
// @version         1.0
// @description     Friend requests, notifications, direct messages and realtime pushes
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "social-service/docs"
	"social-service/internal/api/routes"
	"social-service/internal/auth"
	"social-service/internal/config"
	"social-service/internal/database"
	"social-service/internal/events"
	"social-service/internal/services"
	"social-service/internal/storage"
	"social-service/internal/websocket"
	"social-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Initialize logger
	appLog := logger.New(cfg.Log.Level, cfg.Log.Format)
	appLog.Info("Starting social server", "dbDriver", cfg.Database.Driver, "mediaBackend", cfg.Media.Backend)

	// Initialize database connection
	db, err := database.Open(cfg.Database)
	if err != nil {
		appLog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Redis is optional: it mirrors presence, relays pushes between
	// instances and backs rate limiting.
	var (
		redisService *services.RedisService
		relay        *websocket.Relay
		presence     websocket.PresenceTracker
	)
	if cfg.Redis.Enabled() {
		redisClient, err := database.NewRedisConnection(cfg.Redis, appLog)
		if err != nil {
			appLog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		redisService = services.NewRedisService(redisClient)
		relay = websocket.NewRelay(redisService)
		presence = redisService
	} else {
		appLog.Warn("REDIS_URL not set; presence mirroring, relay and rate limiting are off")
	}

	publisher, err := events.New(cfg.Kafka, appLog)
	if err != nil {
		appLog.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}

	mediaStore, err := storage.New(context.Background(), cfg.Media, appLog)
	if err != nil {
		appLog.Error("Failed to initialize media storage", "error", err)
		os.Exit(1)
	}

	// Initialize WebSocket hub and dispatcher
	hub := websocket.NewHub(presence)
	go hub.Run()

	relayCtx, stopRelay := context.WithCancel(context.Background())
	dispatcher := websocket.NewDispatcher(hub, relay)
	go dispatcher.Run(relayCtx)

	// Initialize router with all dependencies
	router := routes.NewRouter(routes.Options{
		DB:             db,
		Hub:            hub,
		Pusher:         dispatcher,
		RedisService:   redisService,
		Tokens:         auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpirationTime),
		Publisher:      publisher,
		MediaStore:     mediaStore,
		MaxUploadSize:  cfg.Media.MaxUploadSize,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	router.SetupRoutes()

	// Create HTTP server
	server := newHTTPServer(cfg.Server, router.GetEngine())

	// Start server in a goroutine
	go func() {
		appLog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop realtime first so no push races the shutdown
	stopRelay()
	hub.Stop()

	if err := publisher.Close(); err != nil {
		appLog.Error("Failed to flush event publisher", "error", err)
	}
	if err := mediaStore.Close(ctx); err != nil {
		appLog.Error("Failed to close media storage", "error", err)
	}

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	appLog.Info("Server stopped")
}

func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
