package services

import (
	"context"
	"errors"
	"io"

	"social-service/internal/apperror"
	"social-service/internal/models"
	"social-service/internal/storage"
)

type MediaService struct {
	store   storage.MediaStore
	maxSize int64
}

func NewMediaService(store storage.MediaStore, maxSize int64) *MediaService {
	return &MediaService{store: store, maxSize: maxSize}
}

func (s *MediaService) Upload(ctx context.Context, f storage.File) (*models.MediaUploadResponse, error) {
	if f.Body == nil || f.Size == 0 {
		return nil, apperror.InvalidRequest("File is empty")
	}
	if s.maxSize > 0 && f.Size > s.maxSize {
		return nil, apperror.InvalidRequest("File is too large")
	}

	obj, err := s.store.Upload(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err, "failed to upload media")
	}
	return &models.MediaUploadResponse{URL: obj.URL, MediaType: obj.MediaType}, nil
}

// Open streams a stored object back. Only stores that serve their own
// objects support it; for the rest every id is unknown.
func (s *MediaService) Open(ctx context.Context, id string) (io.ReadCloser, *storage.FileInfo, error) {
	downloader, ok := s.store.(storage.Downloader)
	if !ok {
		return nil, nil, apperror.NotFound("Media not found")
	}

	body, info, err := downloader.Open(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, nil, apperror.NotFound("Media not found")
		}
		return nil, nil, apperror.Internal(err, "failed to open media")
	}
	return body, info, nil
}
