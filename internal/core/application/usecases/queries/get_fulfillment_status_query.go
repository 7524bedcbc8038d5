// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickbin"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var ErrGetFulfillmentStatusQueryIsNotConstructed = errors.New(
	"GetFulfillmentStatusQuery must be created via NewGetFulfillmentStatusQuery constructor",
)

// GetFulfillmentStatusQuery retrieves the full fulfillment picture for one
// order: status, active tasks, active bin, the scan lookup and the recent
// event tail. This is the single payload warehouse screens poll.
type GetFulfillmentStatusQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetFulfillmentStatusQuery creates a query for one order's status.
func NewGetFulfillmentStatusQuery(orderID kernel.UUID) (GetFulfillmentStatusQuery, error) {
	query := GetFulfillmentStatusQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetFulfillmentStatusQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetFulfillmentStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetFulfillmentStatusQueryIsNotConstructed)
}

// OrderID returns the order the query targets.
func (q GetFulfillmentStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetFulfillmentStatusQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// GetFulfillmentStatusQueryResponse is the assembled fulfillment picture.
// PickTask, PackTask and ActiveBin are nil when no active work of that kind
// exists; ScanLookup is rebuilt from the active tasks on every call.
type GetFulfillmentStatusQueryResponse struct {
	Order        *order.Order
	PickTask     *task.Task
	PackTask     *task.Task
	ActiveBin    *pickbin.PickBin
	ScanLookup   services.ScanLookup
	RecentEvents []fulfillmentevent.Record
}
