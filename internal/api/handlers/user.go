package handlers

import (
	"errors"
	"net/http"

	"social-service/internal/apperror"
	"social-service/internal/models"
	"social-service/internal/services"
	"social-service/internal/storage"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService   *services.UserService
	friendService *services.FriendService
}

func NewUserHandler(userService *services.UserService, friendService *services.FriendService) *UserHandler {
	return &UserHandler{userService: userService, friendService: friendService}
}

// Suggestions godoc
// @Summary People you may know
// @Description Every user except the caller and the caller's friends
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserSummary
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users [get]
func (h *UserHandler) Suggestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	users, err := h.friendService.Suggestions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetProfile godoc
// @Summary Get user profile
// @Description Get the current user's profile information
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserProfile "User profile retrieved successfully"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Update name, description and location, optionally with a new picture
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Display name"
// @Param description formData string false "About me"
// @Param location formData string false "Location"
// @Param picture formData file false "Profile picture (png, jpg, jpeg, gif)"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var picture *storage.File
	header, err := c.FormFile("picture")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		respondError(c, apperror.InvalidRequest("Invalid picture upload"))
		return
	default:
		f, err := header.Open()
		if err != nil {
			respondError(c, apperror.Internal(err, "failed to read picture"))
			return
		}
		defer f.Close()
		picture = &storage.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        f,
		}
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req, picture)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
