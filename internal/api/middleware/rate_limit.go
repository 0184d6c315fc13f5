package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"social-service/internal/models"
	"social-service/internal/services"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware applies sliding-window limits kept in Redis. Without
// Redis every request passes.
type RateLimitMiddleware struct {
	redisService *services.RedisService
}

func NewRateLimitMiddleware(redisService *services.RedisService) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redisService: redisService,
	}
}

// RateLimit limits each authenticated user per endpoint.
func (rm *RateLimitMiddleware) RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			abortUnauthorized(c, "Unauthorized")
			return
		}
		key := fmt.Sprintf("rate_limit:%d:%s", userID, c.FullPath())
		rm.check(c, key, requests, window)
	}
}

// RateLimitIP limits public routes by client IP.
func (rm *RateLimitMiddleware) RateLimitIP(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit_ip:%s:%s", c.ClientIP(), c.FullPath())
		rm.check(c, key, requests, window)
	}
}

func (rm *RateLimitMiddleware) check(c *gin.Context, key string, requests int, window time.Duration) {
	if rm == nil || rm.redisService == nil {
		c.Next()
		return
	}

	allowed, err := rm.redisService.CheckRateLimit(c.Request.Context(), key, requests, window)
	if err != nil {
		// fail open
		slog.Warn("Rate limit check failed", "key", key, "error", err)
		c.Next()
		return
	}

	if !allowed {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
			Code:    http.StatusTooManyRequests,
			Error:   "RATE_LIMITED",
			Message: fmt.Sprintf("Too many requests. Limit: %d per %v", requests, window),
		})
		return
	}

	c.Next()
}
