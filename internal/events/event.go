// Package events publishes domain events to Kafka for downstream consumers.
// Publishing is fire-and-forget from the caller's perspective; the relational
// store stays the source of truth.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"social-service/internal/config"

	"github.com/google/uuid"
)

const (
	FriendRequestSent     = "friend_request.sent"
	FriendRequestAccepted = "friend_request.accepted"
	MessageSent           = "message.sent"
)

type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func (e Event) encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", e.Type, err)
	}
	return data, nil
}

// Publisher delivers events keyed for partitioning. Implementations must be
// safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, key string, evt Event) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, Event) error { return nil }
func (NoopPublisher) Close() error                                 { return nil }

// New picks the publisher for cfg. Without brokers events are discarded.
func New(cfg config.KafkaConfig, log *slog.Logger) (Publisher, error) {
	if log == nil {
		log = slog.Default()
	}
	if !cfg.Enabled() {
		log.Info("Kafka brokers not configured, domain events disabled")
		return NoopPublisher{}, nil
	}

	switch cfg.Client {
	case "sarama":
		return NewSaramaPublisher(cfg.Brokers, cfg.Topic, log)
	default:
		return NewKafkaPublisher(cfg.Brokers, cfg.Topic, log), nil
	}
}

// PublishAsync sends evt on its own goroutine with a bounded timeout and only
// logs failures.
func PublishAsync(p Publisher, key string, evt Event, log *slog.Logger) {
	if p == nil {
		return
	}
	if log == nil {
		log = slog.Default()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, key, evt); err != nil {
			log.Warn("Failed to publish domain event", "type", evt.Type, "key", key, "error", err)
		}
	}()
}
