// Package eventrepo persists the append-only fulfillment event log.
// Rows are immutable once written; reads go through the query handlers with
// direct SQL over the same table.
package eventrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"

	"github.com/google/uuid"
)

// EventDTO represents one row of the fulfillment event log.
// The composite index serves the per-order tail and catch-up queries.
type EventDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID       *uuid.UUID `gorm:"type:uuid;index:idx_fulfillment_events_order_created"`
	Type          string     `gorm:"type:varchar(64);not null"`
	Payload       string     `gorm:"type:jsonb;not null"`
	CorrelationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID        string     `gorm:"type:varchar(64)"`
	CreatedAt     time.Time  `gorm:"not null;index:idx_fulfillment_events_order_created"`
}

// TableName specifies the database table name for event rows.
func (EventDTO) TableName() string {
	return "fulfillment_events"
}

// fromDomain converts an event to its database representation.
func fromDomain(event fulfillmentevent.Event) (EventDTO, error) {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return EventDTO{}, err
	}

	dto := EventDTO{
		ID:            event.ID().Bytes(),
		Type:          event.Type().String(),
		Payload:       string(payload),
		CorrelationID: event.CorrelationID().Bytes(),
		UserID:        event.UserID(),
		CreatedAt:     event.CreatedAt(),
	}
	if orderID := event.OrderID(); orderID != nil {
		raw := orderID.Bytes()
		dto.OrderID = &raw
	}

	return dto, nil
}
