package models

import (
	"time"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeOther MediaType = "other"
)

/** --------------------ENTITIES-------------------- */
// Message is a direct message between two users.
type Message struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SenderID   uint       `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint       `gorm:"not null;index" json:"receiver_id"`
	Text       *string    `gorm:"column:message;type:text" json:"message,omitempty"`
	MediaType  *MediaType `gorm:"size:20" json:"media_type,omitempty"`
	MediaURL   *string    `gorm:"size:512" json:"media_url,omitempty"`
	SentAt     time.Time  `gorm:"not null;index" json:"timestamp"`
	IsRead     bool       `gorm:"not null;default:false" json:"is_read"`
}

/** -------------------- DTOs -------------------- */
// Request
type SendMessageRequest struct {
	ReceiverID uint       `json:"receiver_id" binding:"required"`
	Message    *string    `json:"message,omitempty"`
	MediaURL   *string    `json:"media_url,omitempty"`
	MediaType  *MediaType `json:"media_type,omitempty"`
}

// Response
type MessageView struct {
	ID            uint       `json:"id"`
	SenderID      uint       `json:"sender_id"`
	ReceiverID    uint       `json:"receiver_id"`
	Message       *string    `json:"message,omitempty"`
	MediaType     *MediaType `json:"media_type,omitempty"`
	MediaURL      *string    `json:"media_url,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	IsRead        bool       `json:"is_read"`
	SenderName    string     `json:"sender_name,omitempty"`
	SenderPicture string     `json:"sender_picture,omitempty"`
}

func NewMessageView(m *Message, sender *UserSummary) MessageView {
	v := MessageView{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Message:    m.Text,
		MediaType:  m.MediaType,
		MediaURL:   m.MediaURL,
		Timestamp:  m.SentAt,
		IsRead:     m.IsRead,
	}
	if sender != nil {
		v.SenderName = sender.Name
		v.SenderPicture = sender.Picture
	}
	return v
}

type SendMessageResponse struct {
	MessageID uint `json:"message_id"`
}

// ChatPartner is one entry of a user's conversation list.
type ChatPartner struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Picture     string `json:"picture"`
	UnreadCount int64  `json:"unread_count"`
}

type MediaUploadResponse struct {
	URL       string    `json:"url"`
	MediaType MediaType `json:"media_type"`
}
