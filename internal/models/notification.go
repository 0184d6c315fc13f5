package models

import "time"

type NotificationType string

const (
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationFriendAccept  NotificationType = "friend_accept"
)

/** --------------------ENTITIES-------------------- */
// Notification is written as a side effect of a friend request transition.
// Only IsRead changes after creation.
type Notification struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	UserID          uint             `gorm:"not null;index" json:"user_id"`
	Message         string           `gorm:"size:255;not null" json:"message"`
	Type            NotificationType `gorm:"size:50;not null" json:"type"`
	FriendRequestID *uint            `gorm:"index" json:"friend_request_id,omitempty"`
	IsRead          bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt       time.Time        `json:"created_at"`
}

/** -------------------- DTOs -------------------- */
// NotificationView is a notification with its originator resolved.
type NotificationView struct {
	ID              uint             `json:"id"`
	Type            NotificationType `json:"type"`
	Message         string           `json:"message"`
	FriendRequestID *uint            `json:"friend_request_id,omitempty"`
	IsRead          bool             `json:"is_read"`
	CreatedAt       time.Time        `json:"created_at"`
	Originator      UserSummary      `json:"originator"`
}

func NewNotificationView(n *Notification, originator UserSummary) NotificationView {
	return NotificationView{
		ID:              n.ID,
		Type:            n.Type,
		Message:         n.Message,
		FriendRequestID: n.FriendRequestID,
		IsRead:          n.IsRead,
		CreatedAt:       n.CreatedAt,
		Originator:      originator,
	}
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
