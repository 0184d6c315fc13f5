package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
)

type SaramaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

func newSaramaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Version = sarama.V2_0_0_0
	config.ClientID = "social-service"
	config.Producer.MaxMessageBytes = 1000000
	return config
}

// NewSaramaPublisher connects a synchronous producer. Unlike kafka-go this
// fails fast when no broker is reachable.
func NewSaramaPublisher(brokers []string, topic string, log *slog.Logger) (*SaramaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, newSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create sarama producer: %w", err)
	}
	log.Info("Kafka publisher configured", "client", "sarama", "brokers", brokers, "topic", topic)
	return &SaramaPublisher{producer: producer, topic: topic, logger: log}, nil
}

func (p *SaramaPublisher) Publish(ctx context.Context, key string, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := evt.encode()
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(value),
		Timestamp: evt.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(evt.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send event %s: %w", evt.Type, err)
	}
	p.logger.Debug("Published domain event", "type", evt.Type, "partition", partition, "offset", offset)
	return nil
}

func (p *SaramaPublisher) Close() error {
	return p.producer.Close()
}
