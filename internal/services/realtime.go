package services

// Event names pushed to connected clients. They match the websocket
// package's wire types.
const (
	EventNewMessage      = "new_message"
	EventNewNotification = "new_notification"
)

// Pusher delivers a realtime event to every live session of a user. It is
// best effort: implementations never block on slow clients and never fail
// the caller.
type Pusher interface {
	PushToUser(userID uint, eventType string, payload interface{})
}

type noopPusher struct{}

func (noopPusher) PushToUser(uint, string, interface{}) {}
