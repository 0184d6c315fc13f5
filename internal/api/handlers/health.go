package handlers

import (
	"net/http"

	"social-service/internal/websocket"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	hub *websocket.Hub
}

func NewHealthHandler(hub *websocket.Hub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"websocket": h.hub.Stats(),
	})
}
