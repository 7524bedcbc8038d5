package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetEventsSinceQueryIsNotConstructed = errors.New(
	"GetEventsSinceQuery must be created via NewGetEventsSinceQuery constructor",
)

// GetEventsSinceQuery retrieves an order's events after a known event, in
// chronological order. Live dashboards use it to catch up after a dropped
// stream: pass the last event ID seen and replay forward. An empty
// lastEventID replays from the start of the log.
type GetEventsSinceQuery struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	lastEventID string

	guard guard.ConstructorGuard
}

// NewGetEventsSinceQuery creates a catch-up query.
func NewGetEventsSinceQuery(orderID kernel.UUID, lastEventID string) (GetEventsSinceQuery, error) {
	query := GetEventsSinceQuery{
		lastEventID: lastEventID,
		guard:       guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetEventsSinceQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetEventsSinceQuery) Validate() error {
	return q.guard.Validate(ErrGetEventsSinceQueryIsNotConstructed)
}

// OrderID returns the order whose events are replayed.
func (q GetEventsSinceQuery) OrderID() kernel.UUID {
	return q.orderID
}

// LastEventID returns the last event the caller already has, or empty.
func (q GetEventsSinceQuery) LastEventID() string {
	return q.lastEventID
}

func (q *GetEventsSinceQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}
