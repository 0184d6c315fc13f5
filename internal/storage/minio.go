package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"social-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *slog.Logger
}

// NewMinIOStore connects to MinIO and creates the bucket when missing.
func NewMinIOStore(ctx context.Context, cfg config.MediaConfig, log *slog.Logger) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Info("Created MinIO bucket", "bucket", cfg.Bucket)
	}

	log.Info("Successfully connected to MinIO", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return newMinIOStore(client, cfg.Bucket, cfg.PublicURL, log), nil
}

func newMinIOStore(client *minio.Client, bucket, publicURL string, log *slog.Logger) *MinIOStore {
	return &MinIOStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    log,
	}
}

func (m *MinIOStore) Upload(ctx context.Context, f File) (*Object, error) {
	mediaType := DetectMediaType(f.Name, f.ContentType)
	key := objectKey(mediaType, f.OwnerID, f.Name)

	_, err := m.client.PutObject(ctx, m.bucket, key, f.Body, f.Size, minio.PutObjectOptions{
		ContentType: contentTypeFor(f),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	m.logger.Debug("Uploaded media object", "bucket", m.bucket, "key", key, "size", f.Size)
	return &Object{Key: key, URL: m.objectURL(key), MediaType: mediaType}, nil
}

func (m *MinIOStore) objectURL(key string) string {
	if m.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, key)
	}
	endpoint := m.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", endpoint.Scheme, endpoint.Host, m.bucket, key)
}

func (m *MinIOStore) Close(context.Context) error {
	return nil
}
