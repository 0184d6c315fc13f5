package handlers

import (
	"social-service/internal/websocket"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
)

type WSHandler struct {
	hub      *websocket.Hub
	upgrader *gws.Upgrader
}

func NewWSHandler(hub *websocket.Hub, upgrader *gws.Upgrader) *WSHandler {
	return &WSHandler{hub: hub, upgrader: upgrader}
}

// HandleWebSocket godoc
// @Summary WebSocket connection
// @Description Establish a WebSocket connection for real-time events. Send join_chat to start receiving pushes.
// @Tags websocket
// @Param token query string true "JWT access token"
// @Success 101 "Switching Protocols - WebSocket connection established"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @Router /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	websocket.ServeWS(h.hub, h.upgrader, c.Writer, c.Request, userID)
}
