package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageType is the wire "type" of a WebSocket envelope.
type MessageType string

const (
	// Connection events
	MessageTypeConnect    MessageType = "connect"
	MessageTypeDisconnect MessageType = "disconnect"

	// Room membership
	MessageTypeJoinChat  MessageType = "join_chat"
	MessageTypeLeaveChat MessageType = "leave_chat"

	// Server pushes
	MessageTypeNewMessage      MessageType = "new_message"
	MessageTypeNewNotification MessageType = "new_notification"

	MessageTypeError MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

func (mt MessageType) IsValid() bool {
	switch mt {
	case MessageTypeConnect, MessageTypeDisconnect, MessageTypeJoinChat, MessageTypeLeaveChat,
		MessageTypeNewMessage, MessageTypeNewNotification, MessageTypeError:
		return true
	default:
		return false
	}
}

// Message is the envelope for both directions. Data holds the
// type-specific payload.
type Message struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
	UserID    *uint           `json:"user_id,omitempty"`
}

// Inbound data shapes
type RoomData struct {
	UserID *uint  `json:"user_id,omitempty"`
	Status string `json:"status,omitempty"`
}

// Outbound data shapes
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ConnectData struct {
	ClientID string `json:"client_id"`
	UserID   uint   `json:"user_id"`
	Status   string `json:"status"`
}

// NewMessage builds an outbound envelope around payload.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	msg := &Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		Timestamp: time.Now().Unix(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", msgType, err)
		}
		msg.Data = data
	}
	return msg, nil
}

func encodeMessage(msgType MessageType, payload interface{}) ([]byte, error) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}

// targetUserID reads the user id of a join_chat or leave_chat request. It
// may sit at the top level or inside data; absent means fallback.
func (m *Message) targetUserID(fallback uint) uint {
	if m.UserID != nil {
		return *m.UserID
	}
	if len(m.Data) > 0 {
		var room RoomData
		if err := json.Unmarshal(m.Data, &room); err == nil && room.UserID != nil {
			return *room.UserID
		}
	}
	return fallback
}
