package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events with segmentio/kafka-go. The writer dials
// lazily, so construction never touches the network.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) *KafkaPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: int(kafka.RequireAll),
		BatchTimeout: 50 * time.Millisecond,
	})
	log.Info("Kafka publisher configured", "client", "kafka-go", "brokers", brokers, "topic", topic)
	return &KafkaPublisher{writer: writer, logger: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, evt Event) error {
	value, err := evt.encode()
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	})
}

// Close flushes pending batches.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
