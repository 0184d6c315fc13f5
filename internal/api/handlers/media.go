package handlers

import (
	"net/http"

	"social-service/internal/apperror"
	"social-service/internal/services"
	"social-service/internal/storage"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaService *services.MediaService
}

func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload godoc
// @Summary Upload a media file
// @Description Returns the URL to put in a message's media_url
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Media file"
// @Success 201 {object} models.MediaUploadResponse
// @Failure 400 {object} models.ErrorResponse "Missing, empty or oversized file"
// @Router /media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperror.InvalidRequest("file is required"))
		return
	}
	f, err := header.Open()
	if err != nil {
		respondError(c, apperror.Internal(err, "failed to read upload"))
		return
	}
	defer f.Close()

	uploaded, err := h.mediaService.Upload(c.Request.Context(), storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
		OwnerID:     userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, uploaded)
}

// Download godoc
// @Summary Download a media file
// @Description Available when the store serves its own objects (GridFS)
// @Tags media
// @Produce octet-stream
// @Param id path string true "Media ID"
// @Success 200 {file} file
// @Failure 404 {object} models.ErrorResponse "Media not found"
// @Router /media/{id} [get]
func (h *MediaHandler) Download(c *gin.Context) {
	body, info, err := h.mediaService.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, body, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
