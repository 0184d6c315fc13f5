package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"social-service/internal/apperror"
	"social-service/internal/auth"
	"social-service/internal/models"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "user_id"

type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// RequireAuth accepts only the Authorization: Bearer header.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		am.authenticate(c, bearerToken(c))
	}
}

// RequireAuthWS also accepts ?token= because browsers cannot set headers on
// a WebSocket handshake.
func (am *AuthMiddleware) RequireAuthWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		am.authenticate(c, token)
	}
}

func (am *AuthMiddleware) authenticate(c *gin.Context, token string) {
	if token == "" {
		abortUnauthorized(c, "authorization token is required")
		return
	}

	userID, err := am.tokens.Verify(token)
	if err != nil {
		slog.Debug("Rejected token", "path", c.Request.URL.Path, "error", err)
		abortUnauthorized(c, "invalid or expired token")
		return
	}

	c.Set(ContextUserID, userID)
	c.Next()
}

// UserID returns the id stored by the auth middleware.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Code:    http.StatusUnauthorized,
		Error:   string(apperror.KindUnauthorized),
		Message: message,
	})
}
