package websocket

import (
	"context"
	"log/slog"
)

// Dispatcher pushes server events into presence rooms. Delivery is
// at-most-once to the sessions connected right now; anything missed is
// recovered by querying the API.
type Dispatcher struct {
	hub   *Hub
	relay *Relay
}

// NewDispatcher wires the hub and an optional cross-instance relay.
func NewDispatcher(hub *Hub, relay *Relay) *Dispatcher {
	return &Dispatcher{hub: hub, relay: relay}
}

// Run relays events published by other instances until ctx ends. Without a
// relay it returns immediately.
func (d *Dispatcher) Run(ctx context.Context) {
	if d.relay == nil {
		return
	}
	d.relay.Run(ctx, d.deliverLocal)
}

// PushToUser sends one event to every session in userID's room. It never
// blocks on a session and never reports failure to the caller.
func (d *Dispatcher) PushToUser(userID uint, eventType string, payload interface{}) {
	msgType := MessageType(eventType)
	if !msgType.IsValid() {
		slog.Error("Refusing to push unknown event type", "type", eventType, "userID", userID)
		return
	}

	data, err := encodeMessage(msgType, payload)
	if err != nil {
		slog.Error("Failed to encode push", "type", eventType, "userID", userID, "error", err)
		return
	}

	delivered := d.deliverLocal(userID, data)
	slog.Debug("Pushed event", "type", eventType, "userID", userID, "sessions", delivered)

	if d.relay != nil {
		d.relay.Publish(userID, data)
	}
}

// deliverLocal returns how many sessions accepted the frame.
func (d *Dispatcher) deliverLocal(userID uint, data []byte) int {
	conns := d.hub.Room(userID)
	if len(conns) == 0 {
		return 0
	}

	delivered := 0
	for _, conn := range conns {
		if conn.Send(data) {
			delivered++
			continue
		}
		slog.Warn("Dropping slow session", "userID", userID, "clientID", conn.ID())
		d.hub.LeaveAll(conn)
		conn.Close()
	}
	return delivered
}
