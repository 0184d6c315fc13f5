package websocket

import (
	"net/http"
	"strings"

	"social-service/internal/utils"

	"github.com/gorilla/websocket"
)

// NewUpgrader accepts the configured origins plus localhost variants.
// Requests without an Origin header are rejected.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimRight(origin, "/")] = true
	}

	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return false
			}
			if allowed[origin] {
				return true
			}

			// For development/testing, allow localhost and loopback origins
			return utils.IsLoopbackOrigin(origin)
		},
	}
}
