// Package storage holds the media store backends. Only the resulting URL and
// a coarse media type ever reach the relational store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"social-service/internal/config"
	"social-service/internal/database"
	"social-service/internal/models"

	"github.com/google/uuid"
)

var (
	ErrDisabled     = errors.New("media storage is not configured")
	ErrFileNotFound = errors.New("media file not found")
)

// File is one upload as received from a multipart form.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
	OwnerID     uint
}

type Object struct {
	Key       string
	URL       string
	MediaType models.MediaType
}

type MediaStore interface {
	Upload(ctx context.Context, f File) (*Object, error)
	Close(ctx context.Context) error
}

// Downloader is implemented by stores that serve their own objects.
type Downloader interface {
	Open(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error)
}

type FileInfo struct {
	ID          string
	Name        string
	ContentType string
	Size        int64
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".bmp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".webm": true, ".mkv": true,
	".avi": true, ".m4v": true,
}

// profilePictureExtensions is narrower than imageExtensions on purpose.
var profilePictureExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

// DetectMediaType classifies by file extension first and falls back to the
// MIME type.
func DetectMediaType(filename, contentType string) models.MediaType {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExtensions[ext]:
		return models.MediaTypeImage
	case videoExtensions[ext]:
		return models.MediaTypeVideo
	}

	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	contentType = strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo
	default:
		return models.MediaTypeOther
	}
}

func IsAllowedProfilePicture(filename string) bool {
	return profilePictureExtensions[strings.ToLower(filepath.Ext(filename))]
}

// objectKey namespaces uploads by type and owner. The original filename only
// contributes its extension.
func objectKey(mediaType models.MediaType, ownerID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%ss/%d/%s%s", mediaType, ownerID, uuid.NewString(), ext)
}

func contentTypeFor(f File) string {
	if f.ContentType != "" {
		return f.ContentType
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

type disabledStore struct{}

// NewDisabledStore rejects every upload with ErrDisabled.
func NewDisabledStore() MediaStore { return disabledStore{} }

func (disabledStore) Upload(context.Context, File) (*Object, error) { return nil, ErrDisabled }
func (disabledStore) Close(context.Context) error                   { return nil }

// New builds the configured backend.
func New(ctx context.Context, cfg config.MediaConfig, log *slog.Logger) (MediaStore, error) {
	if log == nil {
		log = slog.Default()
	}

	switch cfg.Backend {
	case "minio":
		return NewMinIOStore(ctx, cfg, log)
	case "gridfs":
		mongo, err := database.NewMongoConnection(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		store, err := NewGridFSStore(mongo, cfg.PublicURL, log)
		if err != nil {
			_ = mongo.Close(ctx)
			return nil, err
		}
		return store, nil
	default:
		log.Info("Media backend disabled")
		return disabledStore{}, nil
	}
}
