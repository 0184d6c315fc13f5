package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"social-service/internal/config"
	"social-service/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMediaType(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        models.MediaType
	}{
		{"png by extension", "photo.PNG", "", models.MediaTypeImage},
		{"extension beats mime", "clip.mp4", "image/png", models.MediaTypeVideo},
		{"mime fallback image", "blob", "image/webp", models.MediaTypeImage},
		{"mime with params", "blob", "video/mp4; codecs=avc1", models.MediaTypeVideo},
		{"unknown", "notes.txt", "text/plain", models.MediaTypeOther},
		{"nothing at all", "", "", models.MediaTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMediaType(tt.filename, tt.contentType))
		})
	}
}

func TestIsAllowedProfilePicture(t *testing.T) {
	assert.True(t, IsAllowedProfilePicture("me.jpeg"))
	assert.True(t, IsAllowedProfilePicture("ME.GIF"))
	assert.False(t, IsAllowedProfilePicture("me.webp"))
	assert.False(t, IsAllowedProfilePicture("me"))
}

func TestObjectKey_KeepsOnlyExtension(t *testing.T) {
	key := objectKey(models.MediaTypeImage, 7, "../../etc/passwd.PNG")
	assert.True(t, strings.HasPrefix(key, "images/7/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.NotContains(t, key, "..")
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/gif", contentTypeFor(File{Name: "a.gif", ContentType: "image/gif"}))
	assert.Equal(t, "application/octet-stream", contentTypeFor(File{Name: "a.unknownext"}))
}

func TestMinIOStore_ObjectURL(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds: credentials.NewStaticV4("key", "secret", ""),
	})
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := newMinIOStore(client, "media", "", log)
	assert.Equal(t, "http://localhost:9000/media/images/1/x.png", store.objectURL("images/1/x.png"))

	store = newMinIOStore(client, "media", "https://cdn.example.com/", log)
	assert.Equal(t, "https://cdn.example.com/media/images/1/x.png", store.objectURL("images/1/x.png"))
}

func TestNew_DisabledBackend(t *testing.T) {
	store, err := New(context.Background(), config.MediaConfig{Backend: "none"}, nil)
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), File{Name: "a.png", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, store.Close(context.Background()))
}
