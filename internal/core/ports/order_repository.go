package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository is the narrow interface to the external order store.
// The core reads order snapshots and requests transitions; the store's own
// state-machine guard decides whether a requested transition is honored.
type OrderRepository interface {
	// Get retrieves the order snapshot with its items.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateStatus requests a transition to the given status.
	UpdateStatus(ctx context.Context, id kernel.UUID, status order.Status) error

	// IncrementItemPickedQty adds delta to an order item's picked quantity.
	IncrementItemPickedQty(ctx context.Context, itemID kernel.UUID, delta int) error

	// SetItemPickedQty overwrites an order item's picked quantity. Used by
	// the bin-based completion path to align order lines with bin contents.
	SetItemPickedQty(ctx context.Context, itemID kernel.UUID, quantity int) error
}

// AllocationRepository is the narrow interface to the external allocation
// store. Allocations are produced elsewhere; the core consumes ALLOCATED rows
// and updates their status as picks confirm.
type AllocationRepository interface {
	// Get retrieves one allocation row.
	Get(ctx context.Context, id kernel.UUID) (*order.Allocation, error)

	// GetAllocatedByOrder retrieves the order's rows still in ALLOCATED
	// status.
	GetAllocatedByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.Allocation, error)

	// UpdateStatus moves one allocation to the given status.
	UpdateStatus(ctx context.Context, id kernel.UUID, status order.AllocationStatus) error

	// PromoteAllocatedToPicked moves every remaining ALLOCATED row of the
	// order to PICKED. Both pack-completion paths run this so that
	// allocations lagging behind pick confirmations still land in PICKED.
	PromoteAllocatedToPicked(ctx context.Context, orderID kernel.UUID) error
}

// InventoryRepository is the narrow interface to the external inventory
// store. The core mutates a unit only to flip it to PICKED once exhausted.
type InventoryRepository interface {
	// Get retrieves one inventory unit.
	Get(ctx context.Context, id kernel.UUID) (*order.InventoryUnit, error)

	// MarkPicked flips an exhausted unit to PICKED.
	MarkPicked(ctx context.Context, id kernel.UUID) error
}
