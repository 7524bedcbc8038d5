// Package kafka publishes committed fulfillment events to a Kafka topic for
// downstream consumers (shipping, analytics). Publishing is best effort: the
// event recorder logs and swallows failures, so a broker outage degrades the
// live feed without touching warehouse state.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"

	"github.com/segmentio/kafka-go"
)

// Publisher implements EventPublisher over one Kafka topic.
// Messages are keyed by order ID so all events of one order land on the same
// partition and keep their relative order.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher writing to the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
			Async:        false,
		},
	}
}

// Publish writes one event record to the topic.
func (p *Publisher) Publish(ctx context.Context, record fulfillmentevent.Record) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", record.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(record.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(record.ID)},
			{Key: "event-type", Value: []byte(record.Type.String())},
			{Key: "correlation-id", Value: []byte(record.CorrelationID)},
		},
		Time: record.CreatedAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", record.ID, err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
