package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
)

/** --------------------ENTITIES-------------------- */
// FriendRequest is one directed request. Rejected requests are deleted, so
// only pending and accepted rows exist.
type FriendRequest struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	RequesterID uint                `gorm:"not null;index" json:"requester_id"`
	RecipientID uint                `gorm:"not null;index" json:"recipient_id"`
	Status      FriendRequestStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Friendship is stored once per direction: accepting a request writes (A,B)
// and (B,A) together.
type Friendship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"user_id"`
	FriendID  uint      `gorm:"not null;uniqueIndex:idx_friendships_pair;index" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

/** -------------------- DTOs -------------------- */
type SendFriendRequestRequest struct {
	RecipientID uint `json:"recipient_id" binding:"required"`
}

type RejectFriendRequestRequest struct {
	RequesterID uint `json:"requester_id" binding:"required"`
}

type FriendRequestResponse struct {
	RequestID uint `json:"request_id"`
}
