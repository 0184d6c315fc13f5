package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"social-service/internal/apperror"
	"social-service/internal/events"
	"social-service/internal/models"
	"social-service/internal/repositories/postgres"

	"gorm.io/gorm"
)

// FriendService drives friend requests through pending -> accepted, or
// deletes them on reject. Every transition and its notification commit
// together; realtime pushes and domain events follow the commit.
type FriendService struct {
	db            *gorm.DB
	users         *postgres.UserRepository
	friends       *postgres.FriendRepository
	notifications *postgres.NotificationRepository
	pusher        Pusher
	publisher     events.Publisher
}

func NewFriendService(
	db *gorm.DB,
	users *postgres.UserRepository,
	friends *postgres.FriendRepository,
	notifications *postgres.NotificationRepository,
	pusher Pusher,
	publisher events.Publisher,
) *FriendService {
	if pusher == nil {
		pusher = noopPusher{}
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &FriendService{
		db:            db,
		users:         users,
		friends:       friends,
		notifications: notifications,
		pusher:        pusher,
		publisher:     publisher,
	}
}

// SendRequest creates a pending request from requesterID to recipientID and
// notifies the recipient.
func (s *FriendService) SendRequest(ctx context.Context, requesterID, recipientID uint) (*models.FriendRequest, error) {
	if recipientID == 0 {
		return nil, apperror.InvalidRequest("recipient_id is required")
	}
	if requesterID == recipientID {
		return nil, apperror.InvalidRequest("You cannot send a friend request to yourself")
	}

	exists, err := s.users.Exists(ctx, recipientID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to look up recipient")
	}
	if !exists {
		return nil, apperror.NotFound("Recipient not found")
	}

	requester := s.summaryOf(ctx, requesterID)

	var (
		req  *models.FriendRequest
		note *models.Notification
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		friends := s.friends.WithTx(tx)

		if _, err := friends.FindPending(ctx, requesterID, recipientID); err == nil {
			return apperror.Conflict("Friend request already sent")
		} else if !isNotFound(err) {
			return err
		}

		already, err := friends.AreFriends(ctx, requesterID, recipientID)
		if err != nil {
			return err
		}
		if already {
			return apperror.Conflict("You are already friends")
		}

		req = &models.FriendRequest{
			RequesterID: requesterID,
			RecipientID: recipientID,
			Status:      models.FriendRequestPending,
		}
		if err := friends.CreateRequest(ctx, req); err != nil {
			if isDuplicate(err) {
				return apperror.Conflict("Friend request already sent")
			}
			return err
		}

		note = &models.Notification{
			UserID:          recipientID,
			Message:         fmt.Sprintf("%s sent you a friend request", requester.Name),
			Type:            models.NotificationFriendRequest,
			FriendRequestID: &req.ID,
		}
		return s.notifications.WithTx(tx).Create(ctx, note)
	})
	if err != nil {
		return nil, apperror.Internal(err, "failed to send friend request")
	}

	slog.Info("Friend request sent", "requestID", req.ID, "requesterID", requesterID, "recipientID", recipientID)

	s.pusher.PushToUser(recipientID, EventNewNotification, models.NewNotificationView(note, requester))
	events.PublishAsync(s.publisher, strconv.FormatUint(uint64(req.ID), 10),
		events.NewEvent(events.FriendRequestSent, req), nil)

	return req, nil
}

// AcceptRequest accepts requestID on behalf of actingUserID, who must be the
// recipient. The row is locked for the whole transaction and the status
// change is conditional, so concurrent accepts cannot both win.
func (s *FriendService) AcceptRequest(ctx context.Context, requestID, actingUserID uint) (*models.FriendRequest, error) {
	recipient := s.summaryOf(ctx, actingUserID)

	var (
		req  *models.FriendRequest
		note *models.Notification
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		friends := s.friends.WithTx(tx)

		found, err := friends.FindRequestForUpdate(ctx, requestID)
		if err != nil {
			if isNotFound(err) {
				return apperror.NotFound("Friend request not found")
			}
			return err
		}
		if found.RecipientID != actingUserID {
			return apperror.Forbidden("Only the recipient can accept this friend request")
		}
		if found.Status == models.FriendRequestAccepted {
			return apperror.Conflict("Friend request already accepted")
		}

		updated, err := friends.MarkAccepted(ctx, found.ID)
		if err != nil {
			return err
		}
		if !updated {
			return apperror.Conflict("Friend request already accepted")
		}

		if err := friends.CreateFriendshipPair(ctx, found.RequesterID, found.RecipientID); err != nil {
			return err
		}

		note = &models.Notification{
			UserID:          found.RequesterID,
			Message:         fmt.Sprintf("%s accepted your friend request", recipient.Name),
			Type:            models.NotificationFriendAccept,
			FriendRequestID: &found.ID,
		}
		if err := s.notifications.WithTx(tx).Create(ctx, note); err != nil {
			return err
		}

		found.Status = models.FriendRequestAccepted
		req = found
		return nil
	})
	if err != nil {
		return nil, apperror.Internal(err, "failed to accept friend request")
	}

	slog.Info("Friend request accepted", "requestID", req.ID, "requesterID", req.RequesterID, "recipientID", req.RecipientID)

	s.pusher.PushToUser(req.RequesterID, EventNewNotification, models.NewNotificationView(note, recipient))
	events.PublishAsync(s.publisher, strconv.FormatUint(uint64(req.ID), 10),
		events.NewEvent(events.FriendRequestAccepted, req), nil)

	return req, nil
}

// RejectRequest deletes the pending request from requesterID to recipientID
// together with its notification. Only the recipient may reject.
func (s *FriendService) RejectRequest(ctx context.Context, requesterID, recipientID, actingUserID uint) error {
	if actingUserID != recipientID {
		return apperror.Forbidden("Only the recipient can reject this friend request")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		friends := s.friends.WithTx(tx)

		req, err := friends.FindPending(ctx, requesterID, recipientID)
		if err != nil {
			if isNotFound(err) {
				return apperror.NotFound("No pending friend request from this user")
			}
			return err
		}

		if err := friends.DeleteRequest(ctx, req.ID); err != nil {
			return err
		}
		return s.notifications.WithTx(tx).DeleteByRequest(ctx, req.ID, models.NotificationFriendRequest)
	})
	if err != nil {
		return apperror.Internal(err, "failed to reject friend request")
	}

	slog.Info("Friend request rejected", "requesterID", requesterID, "recipientID", recipientID)
	return nil
}

// Suggestions lists "people you may know": everyone except the caller and
// their friends.
func (s *FriendService) Suggestions(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	users, err := s.users.ListSuggestions(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list suggestions")
	}

	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, models.NewUserSummary(u))
	}
	return out, nil
}

func (s *FriendService) Friends(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	ids, err := s.friends.FriendIDs(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list friends")
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load friends")
	}

	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			out = append(out, models.NewUserSummary(u))
		}
	}
	return out, nil
}

// summaryOf never fails: lookup errors degrade to the unknown user card.
func (s *FriendService) summaryOf(ctx context.Context, userID uint) models.UserSummary {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !isNotFound(err) {
			slog.Warn("Failed to resolve user", "userID", userID, "error", err)
		}
		return models.NewUserSummary(nil)
	}
	return models.NewUserSummary(u)
}
