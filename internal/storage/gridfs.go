package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"social-service/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const gridFSBucketName = "media_files"

// GridFSStore keeps media in MongoDB GridFS and serves it back through the
// API, so its URLs point at GET /api/v1/media/:id.
type GridFSStore struct {
	mongo     *database.MongoDB
	bucket    *gridfs.Bucket
	publicURL string
	logger    *slog.Logger
}

func NewGridFSStore(mongo *database.MongoDB, publicURL string, log *slog.Logger) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(mongo.DB, options.GridFSBucket().SetName(gridFSBucketName))
	if err != nil {
		return nil, fmt.Errorf("failed to create GridFS bucket: %w", err)
	}
	log.Info("GridFS media store ready", "bucket", gridFSBucketName)
	return &GridFSStore{
		mongo:     mongo,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    log,
	}, nil
}

func (g *GridFSStore) Upload(ctx context.Context, f File) (*Object, error) {
	mediaType := DetectMediaType(f.Name, f.ContentType)
	metadata := bson.M{
		"media_type":   string(mediaType),
		"content_type": contentTypeFor(f),
		"owner_id":     f.OwnerID,
		"uploaded_at":  time.Now().UTC(),
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetWriteDeadline(deadline); err != nil {
			return nil, err
		}
	}

	stream, err := g.bucket.OpenUploadStream(objectKey(mediaType, f.OwnerID, f.Name),
		options.GridFSUpload().SetMetadata(metadata))
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	if _, err := io.Copy(stream, f.Body); err != nil {
		_ = stream.Abort()
		return nil, fmt.Errorf("file copy failed: %w", err)
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	id := stream.FileID.(primitive.ObjectID).Hex()
	g.logger.Debug("Uploaded media to GridFS", "id", id, "size", f.Size)
	return &Object{
		Key:       id,
		URL:       fmt.Sprintf("%s/api/v1/media/%s", g.publicURL, id),
		MediaType: mediaType,
	}, nil
}

func (g *GridFSStore) Open(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, ErrFileNotFound
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetReadDeadline(deadline); err != nil {
			return nil, nil, err
		}
	}

	stream, err := g.bucket.OpenDownloadStream(objectID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	file := stream.GetFile()
	var metadata struct {
		ContentType string `bson:"content_type"`
	}
	if file.Metadata != nil {
		_ = bson.Unmarshal(file.Metadata, &metadata)
	}

	return stream, &FileInfo{
		ID:          id,
		Name:        file.Name,
		ContentType: metadata.ContentType,
		Size:        file.Length,
	}, nil
}

func (g *GridFSStore) Close(ctx context.Context) error {
	return g.mongo.Close(ctx)
}
