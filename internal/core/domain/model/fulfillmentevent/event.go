// Package fulfillmentevent implements the append-only audit trail of the
// fulfillment core. Every domain action persists one or more immutable
// events after its transaction commits, grouped by a correlation ID that is
// generated once per top-level operation and threaded through everything the
// operation emits. Events are ordered createdAt-ascending; no global
// sequence number is guaranteed across concurrent operations.
package fulfillmentevent

import (
	"encoding/json"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrEventIsNotConstructed is returned when an Event instance was not created
// through the NewEvent factory method.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent constructor")

// Event is an immutable fact about a fulfillment action. The event type is
// derived from the payload, so an event can never carry a payload of the
// wrong shape.
type Event struct {
	id            kernel.UUID
	orderID       *kernel.UUID
	payload       Payload
	correlationID kernel.UUID
	userID        string
	createdAt     time.Time

	isConstructed bool
}

// NewEvent creates an event carrying the given payload.
// orderID is optional; correlationID groups the events of one operation.
func NewEvent(
	orderID *kernel.UUID,
	payload Payload,
	correlationID kernel.UUID,
	userID string,
	createdAt time.Time,
) (Event, error) {
	if payload == nil {
		return Event{}, errors.New("event payload is required")
	}
	if err := payload.EventType().Validate(); err != nil {
		return Event{}, err
	}
	if err := correlationID.Validate(); err != nil {
		return Event{}, err
	}

	return Event{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		payload:       payload,
		correlationID: correlationID,
		userID:        userID,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Event instance was properly constructed.
func (e Event) Validate() error {
	if !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

// ID returns the event's unique identifier.
func (e Event) ID() kernel.UUID { return e.id }

// OrderID returns the order the event belongs to, or nil.
func (e Event) OrderID() *kernel.UUID { return e.orderID }

// Type returns the event type, derived from the payload.
func (e Event) Type() EventType { return e.payload.EventType() }

// Payload returns the typed payload.
func (e Event) Payload() Payload { return e.payload }

// CorrelationID returns the ID grouping the events of one operation.
func (e Event) CorrelationID() kernel.UUID { return e.correlationID }

// UserID returns who triggered the operation, if known.
func (e Event) UserID() string { return e.userID }

// CreatedAt returns when the event was recorded.
func (e Event) CreatedAt() time.Time { return e.createdAt }

// Record is the stored/replayed form of an event, with identifiers as plain
// strings and the payload kept as raw JSON. Reads never need the typed
// payload back; dashboards and the SSE stream forward it verbatim.
type Record struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"orderId,omitempty"`
	Type          EventType       `json:"type"`
	Payload       json.RawMessage `json:"payload"`
	CorrelationID string          `json:"correlationId"`
	UserID        string          `json:"userId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToRecord converts the event to its stored form.
func (e Event) ToRecord() (Record, error) {
	raw, err := json.Marshal(e.payload)
	if err != nil {
		return Record{}, err
	}
	record := Record{
		ID:            e.id.String(),
		Type:          e.Type(),
		Payload:       raw,
		CorrelationID: e.correlationID.String(),
		UserID:        e.userID,
		CreatedAt:     e.createdAt,
	}
	if e.orderID != nil {
		record.OrderID = e.orderID.String()
	}
	return record, nil
}
