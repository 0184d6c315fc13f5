package services

import (
	"context"
	"fmt"
	"testing"

	"social-service/internal/database"
	"social-service/internal/models"
	"social-service/internal/repositories/postgres"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockPusher struct {
	mock.Mock
}

func (m *mockPusher) PushToUser(userID uint, eventType string, payload interface{}) {
	m.Called(userID, eventType, payload)
}

type testEnv struct {
	db            *gorm.DB
	users         *postgres.UserRepository
	friends       *postgres.FriendRepository
	notifications *postgres.NotificationRepository
	messages      *postgres.MessageRepository
	pusher        *mockPusher

	friendService       *FriendService
	notificationService *NotificationService
	messageService      *MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	e := &testEnv{
		db:            db,
		users:         postgres.NewUserRepository(db),
		friends:       postgres.NewFriendRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		messages:      postgres.NewMessageRepository(db),
		pusher:        &mockPusher{},
	}
	e.friendService = NewFriendService(db, e.users, e.friends, e.notifications, e.pusher, nil)
	e.notificationService = NewNotificationService(e.users, e.friends, e.notifications)
	e.messageService = NewMessageService(e.users, e.messages, e.pusher, nil)
	t.Cleanup(func() { e.pusher.AssertExpectations(t) })
	return e
}

// allowPushes accepts any push the test does not assert on explicitly.
func (e *testEnv) allowPushes() {
	e.pusher.On("PushToUser", mock.Anything, mock.Anything, mock.Anything).Maybe()
}

func (e *testEnv) createUser(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{
		Name:    name,
		Email:   fmt.Sprintf("%s@example.com", name),
		Picture: fmt.Sprintf("/static/images/%s.png", name),
	}
	u.Password = "hash"
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func strPtr(s string) *string {
	return &s
}
