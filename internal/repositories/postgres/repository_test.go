package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"social-service/internal/database"
	"social-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUsers(t *testing.T, db *gorm.DB, names ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(names))
	for _, name := range names {
		u := &models.User{Name: name, Email: fmt.Sprintf("%s@example.com", name), Password: "hash"}
		require.NoError(t, db.Create(u).Error)
		users = append(users, u)
	}
	return users
}

func TestUserRepository_CreateRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "alice", Email: "alice@example.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Name: "alice2", Email: "alice@example.com", Password: "y"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepository_FindByIDsSkipsMissing(t *testing.T) {
	db := setupTestDB(t)
	users := createUsers(t, db, "alice", "bob")
	repo := NewUserRepository(db)

	found, err := repo.FindByIDs(context.Background(), []uint{users[0].ID, users[1].ID, users[0].ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "bob", found[users[1].ID].Name)
	assert.Nil(t, found[999])
}

func TestUserRepository_ListSuggestionsExcludesBothDirections(t *testing.T) {
	db := setupTestDB(t)
	users := createUsers(t, db, "alice", "bob", "carol", "dave")
	alice, bob, carol, dave := users[0], users[1], users[2], users[3]

	// only one direction stored for carol: exclusion must still apply
	require.NoError(t, db.Create(&models.Friendship{UserID: alice.ID, FriendID: bob.ID}).Error)
	require.NoError(t, db.Create(&models.Friendship{UserID: carol.ID, FriendID: alice.ID}).Error)

	suggestions, err := NewUserRepository(db).ListSuggestions(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, dave.ID, suggestions[0].ID)
}

func TestFriendRepository_MarkAcceptedOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()

	req := &models.FriendRequest{RequesterID: 1, RecipientID: 2, Status: models.FriendRequestPending}
	require.NoError(t, repo.CreateRequest(ctx, req))

	ok, err := repo.MarkAccepted(ctx, req.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkAccepted(ctx, req.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindRequestForUpdate(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestAccepted, stored.Status)
}

func TestFriendRepository_CreateFriendshipPairIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateFriendshipPair(ctx, 1, 2))
	require.NoError(t, repo.CreateFriendshipPair(ctx, 2, 1))

	count, err := repo.CountFriendships(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	ids, err := repo.FriendIDs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)

	friends, err := repo.AreFriends(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, friends)
}

func TestFriendRepository_FindPendingIgnoresAccepted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateRequest(ctx, &models.FriendRequest{RequesterID: 1, RecipientID: 2, Status: models.FriendRequestAccepted}))

	_, err := repo.FindPending(ctx, 1, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNotificationRepository_MarkAllReadIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{UserID: 1, Message: "hello", Type: models.NotificationFriendRequest}))
	}
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: 2, Message: "other", Type: models.NotificationFriendRequest}))

	updated, err := repo.MarkAllRead(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)

	updated, err = repo.MarkAllRead(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated)

	unread, err := repo.CountUnread(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}

func TestMessageRepository_ConversationIsSymmetricAndOrdered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	base := time.Now().UTC()

	texts := []string{"first", "second", "third"}
	senders := [][2]uint{{1, 2}, {2, 1}, {1, 2}}
	for i, text := range texts {
		text := text
		require.NoError(t, repo.Create(ctx, &models.Message{
			SenderID:   senders[i][0],
			ReceiverID: senders[i][1],
			Text:       &text,
			SentAt:     base.Add(time.Duration(i) * time.Second),
		}))
	}
	other := "unrelated"
	require.NoError(t, repo.Create(ctx, &models.Message{SenderID: 1, ReceiverID: 3, Text: &other}))

	ab, err := repo.GetConversation(ctx, 1, 2)
	require.NoError(t, err)
	ba, err := repo.GetConversation(ctx, 2, 1)
	require.NoError(t, err)

	require.Len(t, ab, 3)
	assert.Equal(t, ab, ba)
	for i, msg := range ab {
		assert.Equal(t, texts[i], *msg.Text)
	}
}

func TestMessageRepository_MarkReadIsDirectional(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	hi := "hi"
	require.NoError(t, repo.Create(ctx, &models.Message{SenderID: 1, ReceiverID: 2, Text: &hi}))
	require.NoError(t, repo.Create(ctx, &models.Message{SenderID: 1, ReceiverID: 2, Text: &hi}))
	require.NoError(t, repo.Create(ctx, &models.Message{SenderID: 2, ReceiverID: 1, Text: &hi}))

	updated, err := repo.MarkRead(ctx, 2, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	counts, err := repo.UnreadCountsBySender(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{2: 1}, counts)

	counts, err = repo.UnreadCountsBySender(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestMessageRepository_PartnerIDsMostRecentFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	hi := "hi"
	require.NoError(t, repo.Create(ctx, &models.Message{SenderID: 1, ReceiverID: 2, Text: &hi}))
	require.NoError(t, repo.Create(ctx, &models.Message{SenderID: 3, ReceiverID: 1, Text: &hi}))
	require.NoError(t, repo.Create(ctx, &models.Message{SenderID: 2, ReceiverID: 1, Text: &hi}))
	require.NoError(t, repo.Create(ctx, &models.Message{SenderID: 4, ReceiverID: 5, Text: &hi}))

	ids, err := repo.PartnerIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, ids)
}

func TestFriendRepository_FindRequestForUpdateLocksRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "requester_id", "recipient_id", "status"}).
		AddRow(10, 1, 2, "pending")
	mock.ExpectQuery(`SELECT \* FROM "friend_requests" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(rows)

	req, err := NewFriendRepository(db).FindRequestForUpdate(context.Background(), 10)
	require.NoError(t, err)
	assert.EqualValues(t, 10, req.ID)
	assert.Equal(t, models.FriendRequestPending, req.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendRepository_MarkAcceptedGuardsOnStatus(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE "friend_requests" SET .*"status"=.* WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := NewFriendRepository(db).MarkAccepted(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
