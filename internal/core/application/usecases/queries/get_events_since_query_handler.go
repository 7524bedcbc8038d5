package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/fulfillmentevent"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// catchUpLimit bounds a single replay batch. Clients page by repeating the
// query with the last ID of the previous batch.
const catchUpLimit = 500

// GetEventsSinceQueryHandler replays an order's event log forward from a
// known event using direct SQL.
type GetEventsSinceQueryHandler struct {
	db *gorm.DB
}

// NewGetEventsSinceQueryHandler creates a handler for catch-up queries.
func NewGetEventsSinceQueryHandler(db *gorm.DB) GetEventsSinceQueryHandler {
	return GetEventsSinceQueryHandler{db: db}
}

// Handle executes the catch-up query.
// An unknown lastEventID replays from the start of the order's log, which is
// safe for clients because events are idempotent to re-render.
func (h GetEventsSinceQueryHandler) Handle(
	ctx context.Context,
	query GetEventsSinceQuery,
) ([]fulfillmentevent.Record, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			order_id,
			type,
			payload,
			correlation_id,
			user_id,
			created_at
		FROM fulfillment_events
		WHERE order_id = ?
	`
	args := []any{query.OrderID().Bytes()}

	if query.LastEventID() != "" {
		if lastID, err := uuid.Parse(query.LastEventID()); err == nil {
			sql += ` AND created_at > COALESCE(
				(SELECT created_at FROM fulfillment_events WHERE id = ?),
				'-infinity'::timestamptz
			)`
			args = append(args, lastID)
		}
	}

	sql += ` ORDER BY created_at ASC LIMIT ?`
	args = append(args, catchUpLimit)

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]fulfillmentevent.Record, 0)
	for rows.Next() {
		record, scanErr := scanEventRecord(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
