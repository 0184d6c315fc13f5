package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"social-service/internal/apperror"
	"social-service/internal/auth"
	"social-service/internal/models"
	"social-service/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMediaStore struct {
	uploads []storage.File
}

func (f *fakeMediaStore) Upload(_ context.Context, file storage.File) (*storage.Object, error) {
	f.uploads = append(f.uploads, file)
	return &storage.Object{
		Key:       "images/1/pic.png",
		URL:       "http://media.test/images/1/pic.png",
		MediaType: storage.DetectMediaType(file.Name, file.ContentType),
	}, nil
}

func (f *fakeMediaStore) Close(context.Context) error { return nil }

func newUserService(e *testEnv, store storage.MediaStore) (*UserService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewUserService(e.users, tokens, NewMediaService(store, 1<<20)), tokens
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)
	svc, tokens := newUserService(e, &fakeMediaStore{})
	ctx := context.Background()

	profile, err := svc.Register(ctx, &models.RegisterRequest{Name: "Alice", Email: " Alice@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.NotZero(t, profile.ID)

	_, err = svc.Register(ctx, &models.RegisterRequest{Name: "Other", Email: "alice@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "ALICE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, profile.ID, resp.User.ID)

	userID, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, userID)
}

func TestUserService_LoginFailuresAreUnauthorized(t *testing.T) {
	e := newTestEnv(t)
	svc, _ := newUserService(e, &fakeMediaStore{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "bob@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestUserService_UpdateProfileWithPicture(t *testing.T) {
	e := newTestEnv(t)
	store := &fakeMediaStore{}
	svc, _ := newUserService(e, store)
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	profile, err := svc.UpdateProfile(ctx, alice.ID,
		&models.UpdateProfileRequest{Name: "Alice A.", Description: "hello", Location: "Paris"},
		&storage.File{Name: "me.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")})
	require.NoError(t, err)

	assert.Equal(t, "Alice A.", profile.Name)
	assert.Equal(t, "Paris", profile.Location)
	assert.Equal(t, "http://media.test/images/1/pic.png", profile.Picture)
	require.Len(t, store.uploads, 1)
	assert.Equal(t, alice.ID, store.uploads[0].OwnerID)
}

func TestUserService_UpdateProfileRejectsBadPicture(t *testing.T) {
	e := newTestEnv(t)
	store := &fakeMediaStore{}
	svc, _ := newUserService(e, store)
	alice := e.createUser(t, "alice")

	_, err := svc.UpdateProfile(context.Background(), alice.ID,
		&models.UpdateProfileRequest{Name: "alice"},
		&storage.File{Name: "me.exe", Size: 3, Body: strings.NewReader("bin")})
	assert.ErrorIs(t, err, apperror.ErrInvalidRequest)
	assert.Empty(t, store.uploads)
}

func TestUserService_GetProfileNotFound(t *testing.T) {
	e := newTestEnv(t)
	svc, _ := newUserService(e, &fakeMediaStore{})

	_, err := svc.GetProfile(context.Background(), 12345)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMediaService_Limits(t *testing.T) {
	svc := NewMediaService(&fakeMediaStore{}, 4)
	ctx := context.Background()

	_, err := svc.Upload(ctx, storage.File{Name: "a.png", Size: 0, Body: strings.NewReader("")})
	assert.ErrorIs(t, err, apperror.ErrInvalidRequest)

	_, err = svc.Upload(ctx, storage.File{Name: "a.png", Size: 10, Body: strings.NewReader("0123456789")})
	assert.ErrorIs(t, err, apperror.ErrInvalidRequest)

	resp, err := svc.Upload(ctx, storage.File{Name: "a.mp4", Size: 2, Body: strings.NewReader("ok")})
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeVideo, resp.MediaType)

	_, _, err = svc.Open(ctx, "anything")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
