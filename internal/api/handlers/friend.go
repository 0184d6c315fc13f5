package handlers

import (
	"context"
	"net/http"

	"social-service/internal/models"
	"social-service/internal/services"

	"github.com/gin-gonic/gin"
)

// PresenceChecker reports whether a user has a live session anywhere.
type PresenceChecker interface {
	IsOnline(ctx context.Context, userID uint) bool
}

type FriendHandler struct {
	friendService *services.FriendService
	presence      PresenceChecker
}

func NewFriendHandler(friendService *services.FriendService, presence PresenceChecker) *FriendHandler {
	return &FriendHandler{friendService: friendService, presence: presence}
}

// SendRequest godoc
// @Summary Send a friend request
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SendFriendRequestRequest true "Recipient"
// @Success 201 {object} models.FriendRequestResponse
// @Failure 400 {object} models.ErrorResponse "Invalid recipient"
// @Failure 404 {object} models.ErrorResponse "Recipient not found"
// @Failure 409 {object} models.ErrorResponse "Request pending or already friends"
// @Router /friend-requests [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	request, err := h.friendService.SendRequest(c.Request.Context(), userID, req.RecipientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.FriendRequestResponse{RequestID: request.ID})
}

// AcceptRequest godoc
// @Summary Accept a friend request
// @Description Only the recipient may accept, and only once
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param id path int true "Friend request ID"
// @Success 200 {object} models.OKResponse
// @Failure 403 {object} models.ErrorResponse "Caller is not the recipient"
// @Failure 404 {object} models.ErrorResponse "Request not found"
// @Failure 409 {object} models.ErrorResponse "Already accepted"
// @Router /friend-requests/{id}/accept [post]
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.friendService.AcceptRequest(c.Request.Context(), requestID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OKResponse{OK: true})
}

// RejectRequest godoc
// @Summary Reject a pending friend request addressed to the caller
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RejectFriendRequestRequest true "Requester"
// @Success 200 {object} models.OKResponse
// @Failure 404 {object} models.ErrorResponse "No pending request"
// @Router /friend-requests/reject [post]
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.RejectFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.friendService.RejectRequest(c.Request.Context(), req.RequesterID, userID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OKResponse{OK: true})
}

// Friends godoc
// @Summary List friends
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserSummary
// @Router /friends [get]
func (h *FriendHandler) Friends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	friends, err := h.friendService.Friends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// OnlineFriends godoc
// @Summary List friends with a live session
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserSummary
// @Router /friends/online [get]
func (h *FriendHandler) OnlineFriends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	friends, err := h.friendService.Friends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	online := make([]models.UserSummary, 0, len(friends))
	for _, f := range friends {
		if h.presence != nil && h.presence.IsOnline(c.Request.Context(), f.ID) {
			online = append(online, f)
		}
	}
	c.JSON(http.StatusOK, online)
}
