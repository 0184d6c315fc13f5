package handlers

import (
	"net/http"

	"social-service/internal/models"
	"social-service/internal/services"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Send godoc
// @Summary Send a direct message
// @Description Text, media or both. The receiver's live sessions get a new_message event.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SendMessageRequest true "Message"
// @Success 201 {object} models.SendMessageResponse
// @Failure 400 {object} models.ErrorResponse "Empty message"
// @Failure 404 {object} models.ErrorResponse "Receiver not found"
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.messageService.Send(c.Request.Context(), services.SendMessageInput{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Text:       req.Message,
		MediaURL:   req.MediaURL,
		MediaType:  req.MediaType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.SendMessageResponse{MessageID: view.ID})
}

// History godoc
// @Summary Conversation with another user
// @Description Both directions, oldest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Other user ID"
// @Success 200 {array} models.MessageView
// @OperationId getConversation
// @Router /messages/{userId} [get]
func (h *MessageHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	messages, err := h.messageService.History(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkRead godoc
// @Summary Mark messages from a user as read
// @Description Only messages the other user sent to the caller change
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Sender ID"
// @Success 200 {object} models.OKResponse
// @Router /messages/{userId}/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	senderID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	updated, err := h.messageService.MarkRead(c.Request.Context(), userID, senderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OKResponse{OK: true, Updated: &updated})
}

// Partners godoc
// @Summary Chat partners
// @Description Everyone the caller has a thread with, most recent first, with unread counts
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ChatPartner
// @Router /messages/partners [get]
func (h *MessageHandler) Partners(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	partners, err := h.messageService.Partners(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partners)
}
