package postgres

import (
	"context"
	"time"

	"social-service/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// GetConversation returns the messages exchanged between two users in either
// direction, oldest first.
func (r *MessageRepository) GetConversation(ctx context.Context, userID, otherID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkRead flips the unread messages sent by senderID to receiverID.
func (r *MessageRepository) MarkRead(ctx context.Context, receiverID, senderID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// PartnerIDs returns everyone userID has exchanged messages with, most
// recent conversation first.
func (r *MessageRepository) PartnerIDs(ctx context.Context, userID uint) ([]uint, error) {
	type partnerRow struct {
		PartnerID uint
		LastID    uint
	}

	var rows []partnerRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id,
		       MAX(id) AS last_id
		FROM messages
		WHERE sender_id = ? OR receiver_id = ?
		GROUP BY partner_id
		ORDER BY last_id DESC`, userID, userID, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PartnerID)
	}
	return ids, nil
}

// UnreadCountsBySender counts unread messages addressed to receiverID,
// grouped by sender.
func (r *MessageRepository) UnreadCountsBySender(ctx context.Context, receiverID uint) (map[uint]int64, error) {
	type countRow struct {
		SenderID uint
		Unread   int64
	}

	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS unread").
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderID] = row.Unread
	}
	return counts, nil
}
