package handlers

import (
	"log/slog"
	"net/http"

	"social-service/internal/api/middleware"
	"social-service/internal/apperror"
	"social-service/internal/models"
	"social-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError renders err with the status of its kind. Internal causes are
// logged and never reach the client.
func respondError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	if kind == apperror.KindInternal {
		slog.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}

	c.JSON(status, models.ErrorResponse{
		Code:    status,
		Error:   string(kind),
		Message: apperror.MessageOf(err),
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Code:    http.StatusBadRequest,
		Error:   string(apperror.KindInvalidRequest),
		Message: "Invalid input data",
		Details: err.Error(),
	})
}

// currentUserID writes a 401 and reports false when the request carries no
// authenticated user.
func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, apperror.Unauthorized("Authentication required"))
		return 0, false
	}
	return userID, true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := utils.StringToUint(c.Param(name))
	if err != nil || id == 0 {
		respondError(c, apperror.InvalidRequest("Invalid "+name))
		return 0, false
	}
	return id, true
}
