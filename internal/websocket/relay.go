package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"social-service/internal/services"

	"github.com/google/uuid"
)

type relayEnvelope struct {
	Origin  string          `json:"origin"`
	UserID  uint            `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Relay shares pushes between instances over Redis pub/sub so a user's
// sessions receive events no matter which instance produced them.
type Relay struct {
	redis      *services.RedisService
	instanceID string
}

func NewRelay(redis *services.RedisService) *Relay {
	return &Relay{redis: redis, instanceID: uuid.NewString()}
}

func (r *Relay) InstanceID() string {
	return r.instanceID
}

// Publish hands data to other instances without blocking the caller.
func (r *Relay) Publish(userID uint, data []byte) {
	envelope := relayEnvelope{Origin: r.instanceID, UserID: userID, Payload: data}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.redis.PublishUserEvent(ctx, envelope); err != nil {
			slog.Warn("Failed to relay event", "userID", userID, "error", err)
		}
	}()
}

// Run delivers envelopes from other instances until ctx is done. Our own
// envelopes were already delivered locally and are skipped.
func (r *Relay) Run(ctx context.Context, deliver func(userID uint, data []byte) int) {
	pubsub := r.redis.Subscribe(ctx, services.UserEventsChannel)
	defer pubsub.Close()

	slog.Info("Relay subscribed", "channel", services.UserEventsChannel, "instanceID", r.instanceID)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Relay stopped", "instanceID", r.instanceID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.handle(msg.Payload, deliver)
		}
	}
}

func (r *Relay) handle(raw string, deliver func(userID uint, data []byte) int) {
	var envelope relayEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		slog.Warn("Discarding malformed relay envelope", "error", err)
		return
	}
	if envelope.Origin == r.instanceID {
		return
	}
	deliver(envelope.UserID, envelope.Payload)
}
