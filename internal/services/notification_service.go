package services

import (
	"context"

	"social-service/internal/apperror"
	"social-service/internal/models"
	"social-service/internal/repositories/postgres"
)

type NotificationService struct {
	users         *postgres.UserRepository
	friends       *postgres.FriendRepository
	notifications *postgres.NotificationRepository
}

func NewNotificationService(
	users *postgres.UserRepository,
	friends *postgres.FriendRepository,
	notifications *postgres.NotificationRepository,
) *NotificationService {
	return &NotificationService{users: users, friends: friends, notifications: notifications}
}

// Feed returns userID's notifications newest first, each with its
// originator resolved. Requests and users are loaded in one batch each.
//
// A friend_request item whose request was accepted is hidden; the matching
// friend_accept item supersedes it.
func (s *NotificationService) Feed(ctx context.Context, userID uint) ([]models.NotificationView, error) {
	notifications, err := s.notifications.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load notifications")
	}

	requestIDs := make([]uint, 0, len(notifications))
	for _, n := range notifications {
		if n.FriendRequestID != nil {
			requestIDs = append(requestIDs, *n.FriendRequestID)
		}
	}
	requests, err := s.friends.FindRequestsByIDs(ctx, requestIDs)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load friend requests")
	}

	userIDs := make([]uint, 0, len(requests)*2)
	for _, req := range requests {
		userIDs = append(userIDs, req.RequesterID, req.RecipientID)
	}
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load users")
	}

	feed := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		var req *models.FriendRequest
		if n.FriendRequestID != nil {
			req = requests[*n.FriendRequestID]
		}

		if n.Type == models.NotificationFriendRequest && req != nil && req.Status == models.FriendRequestAccepted {
			continue
		}

		feed = append(feed, models.NewNotificationView(n, originatorOf(n, req, users)))
	}
	return feed, nil
}

func originatorOf(n *models.Notification, req *models.FriendRequest, users map[uint]*models.User) models.UserSummary {
	if req == nil {
		return models.NewUserSummary(nil)
	}
	originatorID := req.RequesterID
	if n.Type == models.NotificationFriendAccept {
		originatorID = req.RecipientID
	}
	return models.NewUserSummary(users[originatorID])
}

// MarkAllRead flips every unread notification of userID. Calling it again is
// harmless and reports zero.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	updated, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperror.Internal(err, "failed to mark notifications as read")
	}
	return updated, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperror.Internal(err, "failed to count notifications")
	}
	return count, nil
}
