package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// EventRecorder appends events to the audit log and fans them out to live
// subscribers. Handlers call it strictly after Commit, so both the append and
// the publish are best effort: failures are logged and swallowed, never
// surfaced as operation errors.
type EventRecorder struct {
	store     ports.EventStore
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewEventRecorder creates an EventRecorder. A nil publisher falls back to
// ports.NoOpEventPublisher so handlers never have to nil-check.
func NewEventRecorder(store ports.EventStore, publisher ports.EventPublisher, logger *slog.Logger) EventRecorder {
	if publisher == nil {
		publisher = ports.NoOpEventPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return EventRecorder{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Record persists the events and publishes each one to live subscribers.
// Invalid events are skipped with a log line; append and publish failures
// are logged and swallowed.
func (r EventRecorder) Record(ctx context.Context, events ...fulfillmentevent.Event) {
	valid := make([]fulfillmentevent.Event, 0, len(events))
	for _, event := range events {
		if err := event.Validate(); err != nil {
			r.logger.ErrorContext(ctx, "skipping invalid fulfillment event", "error", err)
			continue
		}
		valid = append(valid, event)
	}
	if len(valid) == 0 {
		return
	}

	if err := r.store.Append(ctx, valid); err != nil {
		r.logger.ErrorContext(ctx, "failed to append fulfillment events",
			"count", len(valid), "error", err)
	}

	for _, event := range valid {
		record, err := event.ToRecord()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to encode fulfillment event",
				"type", event.Type(), "error", err)
			continue
		}
		if err = r.publisher.Publish(ctx, record); err != nil {
			r.logger.WarnContext(ctx, "failed to publish fulfillment event",
				"type", event.Type(), "error", err)
		}
	}
}

// newOperationEvents stamps one fresh correlation ID across the events of a
// single command. Payloads that fail construction are dropped; EventRecorder
// validation reports anything that slips through.
func newOperationEvents(
	orderID kernel.UUID,
	userID string,
	at time.Time,
	payloads ...fulfillmentevent.Payload,
) []fulfillmentevent.Event {
	correlationID := kernel.NewUUID()
	events := make([]fulfillmentevent.Event, 0, len(payloads))
	for _, payload := range payloads {
		event, err := fulfillmentevent.NewEvent(&orderID, payload, correlationID, userID, at)
		if err != nil {
			continue
		}
		events = append(events, event)
	}
	return events
}
