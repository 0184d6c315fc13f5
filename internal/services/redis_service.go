package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"social-service/internal/database"

	"github.com/redis/go-redis/v9"
)

const (
	onlineUsersKey = "online_users"
	// UserEventsChannel carries realtime envelopes between instances.
	UserEventsChannel = "social:user_events"
)

type RedisService struct {
	client *database.RedisClient
}

func NewRedisService(client *database.RedisClient) *RedisService {
	return &RedisService{
		client: client,
	}
}

func userStatusKey(userID uint) string {
	return fmt.Sprintf("user:%d:status", userID)
}

// =============================================================================
// User Status Management
// =============================================================================

func (r *RedisService) SetUserOnline(ctx context.Context, userID uint) error {
	pipe := r.client.GetClient().Pipeline()

	pipe.SAdd(ctx, onlineUsersKey, userID)
	pipe.HSet(ctx, userStatusKey(userID), map[string]interface{}{
		"status":     "online",
		"last_seen":  time.Now().Unix(),
		"updated_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, userStatusKey(userID), 5*time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("Failed to set user online", "userID", userID, "error", err)
		return err
	}

	slog.Debug("User set to online", "userID", userID)
	return nil
}

func (r *RedisService) SetUserOffline(ctx context.Context, userID uint) error {
	pipe := r.client.GetClient().Pipeline()

	pipe.SRem(ctx, onlineUsersKey, userID)
	pipe.HSet(ctx, userStatusKey(userID), map[string]interface{}{
		"status":     "offline",
		"last_seen":  time.Now().Unix(),
		"updated_at": time.Now().Unix(),
	})
	// offline status outlives online status
	pipe.Expire(ctx, userStatusKey(userID), 24*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("Failed to set user offline", "userID", userID, "error", err)
		return err
	}

	slog.Debug("User set to offline", "userID", userID)
	return nil
}

func (r *RedisService) IsUserOnline(ctx context.Context, userID uint) (bool, error) {
	return r.client.GetClient().SIsMember(ctx, onlineUsersKey, userID).Result()
}

func (r *RedisService) GetOnlineUsers(ctx context.Context) ([]string, error) {
	return r.client.GetClient().SMembers(ctx, onlineUsersKey).Result()
}

// =============================================================================
// PubSub Operations
// =============================================================================

// PublishUserEvent fans an already encoded envelope out to every instance.
func (r *RedisService) PublishUserEvent(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := r.client.GetClient().Publish(ctx, UserEventsChannel, data).Err(); err != nil {
		slog.Error("Failed to publish user event", "error", err)
		return err
	}
	return nil
}

func (r *RedisService) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	pubsub := r.client.GetClient().Subscribe(ctx, channels...)
	slog.Debug("Subscribed to channels", "channels", channels)
	return pubsub
}

// =============================================================================
// Rate Limiting
// =============================================================================

// CheckRateLimit is a sliding-window limiter over a sorted set. It reports
// whether the current request fits within limit.
func (r *RedisService) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := r.client.GetClient().Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	count := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() < int64(limit), nil
}
