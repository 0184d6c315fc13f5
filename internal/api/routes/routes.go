package routes

import (
	"context"
	"log/slog"
	"time"

	"social-service/internal/api/handlers"
	"social-service/internal/api/middleware"
	"social-service/internal/auth"
	"social-service/internal/events"
	"social-service/internal/repositories/postgres"
	"social-service/internal/services"
	"social-service/internal/storage"
	"social-service/internal/websocket"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Options carries everything the router wires together. RedisService,
// Publisher and MediaStore may be nil.
type Options struct {
	DB             *gorm.DB
	Hub            *websocket.Hub
	Pusher         services.Pusher
	RedisService   *services.RedisService
	Tokens         *auth.TokenManager
	Publisher      events.Publisher
	MediaStore     storage.MediaStore
	MaxUploadSize  int64
	AllowedOrigins []string
}

type Router struct {
	engine              *gin.Engine
	wsHandler           *handlers.WSHandler
	authHandler         *handlers.AuthHandler
	userHandler         *handlers.UserHandler
	friendHandler       *handlers.FriendHandler
	notificationHandler *handlers.NotificationHandler
	messageHandler      *handlers.MessageHandler
	mediaHandler        *handlers.MediaHandler
	healthHandler       *handlers.HealthHandler
	rateLimitMW         *middleware.RateLimitMiddleware
	authMW              *middleware.AuthMiddleware
}

func NewRouter(opts Options) *Router {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(opts.AllowedOrigins))
	engine.Use(middleware.LogApi())

	mediaStore := opts.MediaStore
	if mediaStore == nil {
		mediaStore = storage.NewDisabledStore()
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(opts.DB)
	friendRepo := postgres.NewFriendRepository(opts.DB)
	notificationRepo := postgres.NewNotificationRepository(opts.DB)
	messageRepo := postgres.NewMessageRepository(opts.DB)

	// Initialize services
	mediaService := services.NewMediaService(mediaStore, opts.MaxUploadSize)
	userService := services.NewUserService(userRepo, opts.Tokens, mediaService)
	friendService := services.NewFriendService(opts.DB, userRepo, friendRepo, notificationRepo, opts.Pusher, opts.Publisher)
	notificationService := services.NewNotificationService(userRepo, friendRepo, notificationRepo)
	messageService := services.NewMessageService(userRepo, messageRepo, opts.Pusher, opts.Publisher)

	upgrader := websocket.NewUpgrader(opts.AllowedOrigins)

	return &Router{
		engine:              engine,
		wsHandler:           handlers.NewWSHandler(opts.Hub, upgrader),
		authHandler:         handlers.NewAuthHandler(userService),
		userHandler:         handlers.NewUserHandler(userService, friendService),
		friendHandler:       handlers.NewFriendHandler(friendService, presenceChecker{hub: opts.Hub, redis: opts.RedisService}),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		messageHandler:      handlers.NewMessageHandler(messageService),
		mediaHandler:        handlers.NewMediaHandler(mediaService),
		healthHandler:       handlers.NewHealthHandler(opts.Hub),
		rateLimitMW:         middleware.NewRateLimitMiddleware(opts.RedisService),
		authMW:              middleware.NewAuthMiddleware(opts.Tokens),
	}
}

// presenceChecker asks the local hub first and falls back to the Redis
// mirror, which also covers sessions on other instances.
type presenceChecker struct {
	hub   *websocket.Hub
	redis *services.RedisService
}

func (p presenceChecker) IsOnline(ctx context.Context, userID uint) bool {
	if p.hub != nil && p.hub.IsOnline(userID) {
		return true
	}
	if p.redis == nil {
		return false
	}
	online, err := p.redis.IsUserOnline(ctx, userID)
	if err != nil {
		slog.Warn("Failed to read presence", "userID", userID, "error", err)
		return false
	}
	return online
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", r.healthHandler.Health)
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")

	// WebSocket endpoint; browsers pass the token as ?token=
	api.GET("/ws", r.authMW.RequireAuthWS(), r.wsHandler.HandleWebSocket)

	// Media objects are linked from <img> tags, so downloads are public.
	api.GET("/media/:id", r.mediaHandler.Download)

	// Authenticated routes
	authed := api.Group("/")
	authed.Use(r.authMW.RequireAuth())
	{
		users := authed.Group("/users")
		users.Use(r.rateLimitMW.RateLimit(100, time.Minute)) // 100 requests per minute
		{
			users.GET("", r.userHandler.Suggestions)
			users.GET("/me", r.userHandler.GetProfile)
			users.PUT("/profile", r.userHandler.UpdateProfile)
		}

		friendRequests := authed.Group("/friend-requests")
		friendRequests.Use(r.rateLimitMW.RateLimit(60, time.Minute))
		{
			friendRequests.POST("", r.friendHandler.SendRequest)
			friendRequests.POST("/reject", r.friendHandler.RejectRequest)
			friendRequests.POST("/:id/accept", r.friendHandler.AcceptRequest)
		}
		authed.GET("/friends", r.friendHandler.Friends)
		authed.GET("/friends/online", r.friendHandler.OnlineFriends)

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", r.notificationHandler.List)
			notifications.PUT("/read", r.notificationHandler.MarkAllRead)
			notifications.GET("/unread-count", r.notificationHandler.UnreadCount)
		}

		messages := authed.Group("/messages")
		messages.Use(r.rateLimitMW.RateLimit(200, time.Minute)) // 200 requests per minute
		{
			messages.POST("", r.messageHandler.Send)
			messages.GET("/partners", r.messageHandler.Partners)
			messages.GET("/:userId", r.messageHandler.History)
			messages.PUT("/:userId/read", r.messageHandler.MarkRead)
		}

		authed.POST("/media", r.rateLimitMW.RateLimit(30, time.Minute), r.mediaHandler.Upload)
	}

	// Public routes (no authentication required)
	authRoutes := api.Group("/auth")
	authRoutes.Use(r.rateLimitMW.RateLimitIP(50, time.Minute)) // 50 requests per minute per IP
	{
		authRoutes.POST("/register", r.authHandler.Register)
		authRoutes.POST("/login", r.authHandler.Login)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
