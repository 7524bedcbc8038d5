package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
)

// EventStore appends fulfillment events to the durable audit log.
// Appends happen after the warehouse transaction commits, so a failed append
// can never roll back warehouse state and a rollback can never leave a
// dangling event.
type EventStore interface {
	Append(ctx context.Context, events []fulfillmentevent.Event) error
}

// EventPublisher fans a committed event out to live subscribers.
// Publishing is best effort: implementations must not block domain
// operations, and callers log and swallow failures.
type EventPublisher interface {
	Publish(ctx context.Context, record fulfillmentevent.Record) error
}

// NoOpEventPublisher is the default publisher when no live channel is
// configured.
type NoOpEventPublisher struct{}

// Publish implements EventPublisher by doing nothing.
func (NoOpEventPublisher) Publish(context.Context, fulfillmentevent.Record) error {
	return nil
}
