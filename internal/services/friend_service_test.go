package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"social-service/internal/apperror"
	"social-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFriendService_SendRequestValidation(t *testing.T) {
	e := newTestEnv(t)
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	tests := []struct {
		name        string
		recipientID uint
		wantErr     error
	}{
		{"missing recipient id", 0, apperror.ErrInvalidRequest},
		{"self request", alice.ID, apperror.ErrInvalidRequest},
		{"unknown recipient", 9999, apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.friendService.SendRequest(ctx, alice.ID, tt.recipientID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFriendService_SendRequestNotifiesRecipient(t *testing.T) {
	e := newTestEnv(t)
	alice, bob := e.createUser(t, "alice"), e.createUser(t, "bob")
	ctx := context.Background()

	e.pusher.On("PushToUser", bob.ID, EventNewNotification, mock.MatchedBy(func(v models.NotificationView) bool {
		return v.Type == models.NotificationFriendRequest && v.Originator.ID == alice.ID && v.Originator.Name == "alice"
	})).Once()

	req, err := e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestPending, req.Status)

	feed, err := e.notificationService.Feed(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "alice sent you a friend request", feed[0].Message)
	require.NotNil(t, feed[0].FriendRequestID)
	assert.Equal(t, req.ID, *feed[0].FriendRequestID)
}

func TestFriendService_DuplicatePendingRequestConflicts(t *testing.T) {
	e := newTestEnv(t)
	e.allowPushes()
	alice, bob := e.createUser(t, "alice"), e.createUser(t, "bob")
	ctx := context.Background()

	_, err := e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// the failed send must not leave a second notification behind
	count, err := e.notifications.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFriendService_SendRequestToFriendConflicts(t *testing.T) {
	e := newTestEnv(t)
	alice, bob := e.createUser(t, "alice"), e.createUser(t, "bob")
	require.NoError(t, e.friends.CreateFriendshipPair(context.Background(), alice.ID, bob.ID))

	_, err := e.friendService.SendRequest(context.Background(), bob.ID, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestFriendService_AcceptCreatesFriendshipAndNotification(t *testing.T) {
	e := newTestEnv(t)
	alice, bob := e.createUser(t, "alice"), e.createUser(t, "bob")
	ctx := context.Background()

	e.pusher.On("PushToUser", bob.ID, EventNewNotification, mock.Anything).Once()
	req, err := e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	e.pusher.On("PushToUser", alice.ID, EventNewNotification, mock.MatchedBy(func(v models.NotificationView) bool {
		return v.Type == models.NotificationFriendAccept && v.Originator.ID == bob.ID
	})).Once()
	accepted, err := e.friendService.AcceptRequest(ctx, req.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestAccepted, accepted.Status)

	count, err := e.friends.CountFriendships(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	aliceNotes, err := e.notifications.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceNotes, 1)
	assert.Equal(t, models.NotificationFriendAccept, aliceNotes[0].Type)
	require.NotNil(t, aliceNotes[0].FriendRequestID)
	assert.Equal(t, req.ID, *aliceNotes[0].FriendRequestID)
}

func TestFriendService_AcceptAuthorization(t *testing.T) {
	e := newTestEnv(t)
	e.allowPushes()
	alice, bob, carol := e.createUser(t, "alice"), e.createUser(t, "bob"), e.createUser(t, "carol")
	ctx := context.Background()

	req, err := e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = e.friendService.AcceptRequest(ctx, req.ID, carol.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = e.friendService.AcceptRequest(ctx, req.ID, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = e.friendService.AcceptRequest(ctx, req.ID+100, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFriendService_DoubleAcceptConflicts(t *testing.T) {
	e := newTestEnv(t)
	e.allowPushes()
	alice, bob := e.createUser(t, "alice"), e.createUser(t, "bob")
	ctx := context.Background()

	req, err := e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = e.friendService.AcceptRequest(ctx, req.ID, bob.ID)
	require.NoError(t, err)
	_, err = e.friendService.AcceptRequest(ctx, req.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	count, err := e.friends.CountFriendships(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestFriendService_ConcurrentAcceptHasSingleWinner(t *testing.T) {
	e := newTestEnv(t)
	e.allowPushes()
	alice, bob := e.createUser(t, "alice"), e.createUser(t, "bob")
	ctx := context.Background()

	req, err := e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	const attempts = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.friendService.AcceptRequest(ctx, req.ID, bob.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperror.KindOf(err) == apperror.KindConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	count, err := e.friends.CountFriendships(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	notes, err := e.notifications.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestFriendService_AcceptedRequestLeavesFeeds(t *testing.T) {
	e := newTestEnv(t)
	e.allowPushes()
	alice, bob := e.createUser(t, "alice"), e.createUser(t, "bob")
	ctx := context.Background()

	req, err := e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = e.friendService.AcceptRequest(ctx, req.ID, bob.ID)
	require.NoError(t, err)

	bobFeed, err := e.notificationService.Feed(ctx, bob.ID)
	require.NoError(t, err)
	for _, item := range bobFeed {
		assert.NotEqual(t, models.NotificationFriendRequest, item.Type)
	}

	aliceFeed, err := e.notificationService.Feed(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceFeed, 1)
	assert.Equal(t, models.NotificationFriendAccept, aliceFeed[0].Type)
	assert.Equal(t, "bob", aliceFeed[0].Originator.Name)
	assert.Equal(t, "bob accepted your friend request", aliceFeed[0].Message)
}

func TestFriendService_RejectThenResend(t *testing.T) {
	e := newTestEnv(t)
	e.allowPushes()
	alice, bob := e.createUser(t, "alice"), e.createUser(t, "bob")
	ctx := context.Background()

	_, err := e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	err = e.friendService.RejectRequest(ctx, alice.ID, bob.ID, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, e.friendService.RejectRequest(ctx, alice.ID, bob.ID, bob.ID))

	_, err = e.friends.FindPending(ctx, alice.ID, bob.ID)
	assert.True(t, isNotFound(err))

	feed, err := e.notificationService.Feed(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)

	err = e.friendService.RejectRequest(ctx, alice.ID, bob.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	assert.NoError(t, err)
}

func TestFriendService_AcceptScenarioConnectsBothSides(t *testing.T) {
	e := newTestEnv(t)
	e.allowPushes()
	u1, u2 := e.createUser(t, "user1"), e.createUser(t, "user2")
	ctx := context.Background()

	req, err := e.friendService.SendRequest(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	_, err = e.friendService.AcceptRequest(ctx, req.ID, u2.ID)
	require.NoError(t, err)

	friends1, err := e.friendService.Friends(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{models.NewUserSummary(u2)}, friends1)

	friends2, err := e.friendService.Friends(ctx, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{models.NewUserSummary(u1)}, friends2)

	feed, err := e.notificationService.Feed(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, models.NotificationFriendAccept, feed[0].Type)
	assert.Equal(t, req.ID, *feed[0].FriendRequestID)
}

func TestFriendService_SuggestionsExcludeFriendsAndSelf(t *testing.T) {
	e := newTestEnv(t)
	alice, bob, carol := e.createUser(t, "alice"), e.createUser(t, "bob"), e.createUser(t, "carol")
	ctx := context.Background()
	require.NoError(t, e.friends.CreateFriendshipPair(ctx, alice.ID, bob.ID))

	suggestions, err := e.friendService.Suggestions(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{models.NewUserSummary(carol)}, suggestions)
}

// failNotificationInserts makes every notification insert on db fail, so the
// surrounding transaction has to roll back.
func failNotificationInserts(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_notifications", func(tx *gorm.DB) {
		if tx.Statement.Table == "notifications" {
			tx.AddError(errors.New("notification insert failed"))
		}
	})
	require.NoError(t, err)
}

func TestFriendService_SendRequestRollsBackOnNotificationFailure(t *testing.T) {
	e := newTestEnv(t)
	alice, bob := e.createUser(t, "alice"), e.createUser(t, "bob")
	ctx := context.Background()
	failNotificationInserts(t, e.db)

	_, err := e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrInternal)

	var requests int64
	require.NoError(t, e.db.Model(&models.FriendRequest{}).Count(&requests).Error)
	assert.Zero(t, requests)

	_, err = e.friends.FindPending(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := e.notifications.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFriendService_AcceptRollsBackOnNotificationFailure(t *testing.T) {
	e := newTestEnv(t)
	e.allowPushes()
	alice, bob := e.createUser(t, "alice"), e.createUser(t, "bob")
	ctx := context.Background()

	req, err := e.friendService.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	failNotificationInserts(t, e.db)

	_, err = e.friendService.AcceptRequest(ctx, req.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrInternal)

	count, err := e.friends.CountFriendships(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	pending, err := e.friends.FindPending(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, pending.ID)
	assert.Equal(t, models.FriendRequestPending, pending.Status)

	unread, err := e.notifications.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
