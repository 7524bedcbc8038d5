package queries

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recentEventsLimit bounds the event tail returned with a status response.
const recentEventsLimit = 100

// GetFulfillmentStatusQueryHandler assembles the fulfillment picture for one
// order. Aggregates are loaded through the repositories so restore validation
// applies; the event tail uses direct SQL for read performance.
type GetFulfillmentStatusQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	db         *gorm.DB
}

// NewGetFulfillmentStatusQueryHandler creates a handler for status queries.
func NewGetFulfillmentStatusQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	db *gorm.DB,
) GetFulfillmentStatusQueryHandler {
	return GetFulfillmentStatusQueryHandler{
		uowFactory: uowFactory,
		db:         db,
	}
}

// Handle executes the status query.
// Missing active tasks and bins are not errors; the corresponding response
// fields are nil.
func (h GetFulfillmentStatusQueryHandler) Handle(
	ctx context.Context,
	query GetFulfillmentStatusQuery,
) (GetFulfillmentStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}

	pickTask, err := h.activeTask(ctx, uow, query, task.KindPick)
	if err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}
	packTask, err := h.activeTask(ctx, uow, query, task.KindPack)
	if err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}

	activeBin, err := uow.PickBinRepository().GetActiveByOrder(ctx, query.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		activeBin = nil
	} else if err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}

	events, err := h.recentEvents(ctx, query.OrderID().Bytes())
	if err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}

	return GetFulfillmentStatusQueryResponse{
		Order:        ord,
		PickTask:     pickTask,
		PackTask:     packTask,
		ActiveBin:    activeBin,
		ScanLookup:   services.NewScanLookupBuilder().Build(pickTask, packTask),
		RecentEvents: events,
	}, nil
}

func (h GetFulfillmentStatusQueryHandler) activeTask(
	ctx context.Context,
	uow ports.UnitOfWork,
	query GetFulfillmentStatusQuery,
	kind task.Kind,
) (*task.Task, error) {
	active, err := uow.TaskRepository().GetActiveByOrderAndKind(ctx, query.OrderID(), kind)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return active, nil
}

// recentEvents reads the createdAt-descending tail of the order's event log
// and returns it oldest-first for display.
func (h GetFulfillmentStatusQueryHandler) recentEvents(
	ctx context.Context,
	orderID uuid.UUID,
) ([]fulfillmentevent.Record, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
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
		ORDER BY created_at DESC
		LIMIT ?
	`, orderID, recentEventsLimit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]fulfillmentevent.Record, 0, recentEventsLimit)
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

	// Oldest first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// scanEventRecord maps one fulfillment_events row onto a Record.
func scanEventRecord(scan func(dest ...any) error) (fulfillmentevent.Record, error) {
	var (
		record        fulfillmentevent.Record
		id            uuid.UUID
		orderID       *uuid.UUID
		correlationID uuid.UUID
		payload       []byte
		createdAt     time.Time
	)

	if err := scan(&id, &orderID, &record.Type, &payload, &correlationID, &record.UserID, &createdAt); err != nil {
		return fulfillmentevent.Record{}, err
	}

	record.ID = id.String()
	if orderID != nil {
		record.OrderID = orderID.String()
	}
	record.Payload = json.RawMessage(payload)
	record.CorrelationID = correlationID.String()
	record.CreatedAt = createdAt
	return record, nil
}
