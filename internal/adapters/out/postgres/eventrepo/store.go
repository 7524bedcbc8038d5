package eventrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/fulfillmentevent"

	"gorm.io/gorm"
)

// GormEventStore implements EventStore using GORM. Events are written in one
// batch insert after the owning business transaction has committed.
type GormEventStore struct {
	db *gorm.DB
}

// NewGormEventStore creates a new GORM event store.
func NewGormEventStore(db *gorm.DB) *GormEventStore {
	return &GormEventStore{db: db}
}

// Append persists the events in order. Appending nothing is a no-op.
func (s *GormEventStore) Append(ctx context.Context, events []fulfillmentevent.Event) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, event := range events {
		if err := event.Validate(); err != nil {
			return err
		}
		dto, err := fromDomain(event)
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)
	}

	return s.db.WithContext(ctx).Create(&dtos).Error
}
