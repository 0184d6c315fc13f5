package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"social-service/internal/apperror"
	"social-service/internal/events"
	"social-service/internal/models"
	"social-service/internal/repositories/postgres"
)

type SendMessageInput struct {
	SenderID   uint
	ReceiverID uint
	Text       *string
	MediaURL   *string
	MediaType  *models.MediaType
}

type MessageService struct {
	users     *postgres.UserRepository
	messages  *postgres.MessageRepository
	pusher    Pusher
	publisher events.Publisher
}

func NewMessageService(
	users *postgres.UserRepository,
	messages *postgres.MessageRepository,
	pusher Pusher,
	publisher events.Publisher,
) *MessageService {
	if pusher == nil {
		pusher = noopPusher{}
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &MessageService{users: users, messages: messages, pusher: pusher, publisher: publisher}
}

// Send stores a direct message and pushes it to the receiver's live
// sessions. The push is fire-and-forget.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (*models.MessageView, error) {
	if in.ReceiverID == 0 {
		return nil, apperror.InvalidRequest("receiver_id is required")
	}
	text := nonBlank(in.Text)
	mediaURL := nonBlank(in.MediaURL)
	if text == nil && mediaURL == nil {
		return nil, apperror.InvalidRequest("Message text or media_url is required")
	}

	exists, err := s.users.Exists(ctx, in.ReceiverID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to look up receiver")
	}
	if !exists {
		return nil, apperror.NotFound("Receiver not found")
	}

	msg := &models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Text:       text,
		MediaURL:   mediaURL,
		IsRead:     false,
	}
	if mediaURL != nil {
		mediaType := models.MediaTypeOther
		if in.MediaType != nil && *in.MediaType != "" {
			mediaType = *in.MediaType
		}
		msg.MediaType = &mediaType
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperror.Internal(err, "failed to send message")
	}

	sender := models.NewUserSummary(nil)
	if u, err := s.users.FindByID(ctx, in.SenderID); err == nil {
		sender = models.NewUserSummary(u)
	} else {
		slog.Warn("Failed to resolve message sender", "userID", in.SenderID, "error", err)
	}

	view := models.NewMessageView(msg, &sender)
	s.pusher.PushToUser(in.ReceiverID, EventNewMessage, view)
	events.PublishAsync(s.publisher, conversationKey(in.SenderID, in.ReceiverID),
		events.NewEvent(events.MessageSent, view), nil)

	slog.Debug("Message sent", "messageID", msg.ID, "senderID", in.SenderID, "receiverID", in.ReceiverID)
	return &view, nil
}

// History returns the thread between two users oldest first. Argument order
// does not matter.
func (s *MessageService) History(ctx context.Context, userID, otherID uint) ([]models.MessageView, error) {
	messages, err := s.messages.GetConversation(ctx, userID, otherID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load messages")
	}

	users, err := s.users.FindByIDs(ctx, []uint{userID, otherID})
	if err != nil {
		return nil, apperror.Internal(err, "failed to load users")
	}
	summaries := map[uint]models.UserSummary{
		userID:  models.NewUserSummary(users[userID]),
		otherID: models.NewUserSummary(users[otherID]),
	}

	out := make([]models.MessageView, 0, len(messages))
	for _, m := range messages {
		sender := summaries[m.SenderID]
		out = append(out, models.NewMessageView(m, &sender))
	}
	return out, nil
}

// MarkRead flips the unread messages senderID sent to receiverID. Messages
// in the opposite direction are untouched.
func (s *MessageService) MarkRead(ctx context.Context, receiverID, senderID uint) (int64, error) {
	if senderID == 0 {
		return 0, apperror.InvalidRequest("sender id is required")
	}
	updated, err := s.messages.MarkRead(ctx, receiverID, senderID)
	if err != nil {
		return 0, apperror.Internal(err, "failed to mark messages as read")
	}
	return updated, nil
}

// Partners lists everyone userID has a thread with, most recent first, with
// the unread count from each.
func (s *MessageService) Partners(ctx context.Context, userID uint) ([]models.ChatPartner, error) {
	ids, err := s.messages.PartnerIDs(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load chat partners")
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load users")
	}
	unread, err := s.messages.UnreadCountsBySender(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to count unread messages")
	}

	partners := make([]models.ChatPartner, 0, len(ids))
	for _, id := range ids {
		summary := models.NewUserSummary(users[id])
		partners = append(partners, models.ChatPartner{
			ID:          id,
			Name:        summary.Name,
			Picture:     summary.Picture,
			UnreadCount: unread[id],
		})
	}
	return partners, nil
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// conversationKey keeps both directions of a thread on one partition.
func conversationKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return strconv.FormatUint(uint64(a), 10) + ":" + strconv.FormatUint(uint64(b), 10)
}
