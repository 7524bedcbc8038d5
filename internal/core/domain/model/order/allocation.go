package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// AllocationStatus represents the lifecycle of an inventory reservation.
type AllocationStatus int

const (
	// AllocationStatusUnknown represents an invalid or undefined status.
	AllocationStatusUnknown AllocationStatus = iota

	// AllocationAllocated means the reservation is waiting to be picked.
	AllocationAllocated

	// AllocationPicked means the full reserved quantity was picked.
	AllocationPicked

	// AllocationPartiallyPicked means a short pick confirmed less than the
	// reserved quantity.
	AllocationPartiallyPicked
)

func getAllocationStatusStrings() map[AllocationStatus]string {
	return map[AllocationStatus]string{
		AllocationStatusUnknown:   "UNKNOWN",
		AllocationAllocated:       "ALLOCATED",
		AllocationPicked:          "PICKED",
		AllocationPartiallyPicked: "PARTIALLY_PICKED",
	}
}

// Validate checks if the AllocationStatus value is valid.
func (s AllocationStatus) Validate() error {
	switch s {
	case AllocationAllocated, AllocationPicked, AllocationPartiallyPicked:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("allocation status is invalid",
			fmt.Errorf("%d is not a valid allocation status", s))
	}
}

// String returns the wire-format name of the allocation status.
func (s AllocationStatus) String() string {
	if str, ok := getAllocationStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Allocation is a reservation linking an order line to a specific inventory
// unit and warehouse location. Allocations are produced by the external
// allocation engine; the core consumes them to build pick lists and updates
// their status as picks are confirmed.
type Allocation struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	OrderItemID      kernel.UUID
	SKU              string
	ProductVariantID kernel.UUID
	Quantity         int
	Status           AllocationStatus

	LocationID      kernel.UUID
	LocationName    string
	LocationBarcode string

	// PickSequence orders locations along the optimized pick path.
	// Locations without a sequence sort last.
	PickSequence *int

	// InventoryUnitID links to the reserved stock unit, when tracked.
	InventoryUnitID *kernel.UUID
}

// EffectivePickSequence returns the sort key for pick-path ordering.
// Allocations without a sequence are treated as +infinity so they land at
// the end of the pick list.
func (a Allocation) EffectivePickSequence() int {
	if a.PickSequence == nil {
		return int(^uint(0) >> 1)
	}
	return *a.PickSequence
}

// InventoryUnitStatus represents the state of a tracked stock unit.
type InventoryUnitStatus int

const (
	// InventoryUnitStatusUnknown represents an invalid or undefined status.
	InventoryUnitStatusUnknown InventoryUnitStatus = iota

	// InventoryUnitAvailable means the unit still holds stock.
	InventoryUnitAvailable

	// InventoryUnitPicked means the unit has been exhausted by picking.
	InventoryUnitPicked
)

// String returns the wire-format name of the inventory unit status.
func (s InventoryUnitStatus) String() string {
	switch s {
	case InventoryUnitAvailable:
		return "AVAILABLE"
	case InventoryUnitPicked:
		return "PICKED"
	default:
		return "UNKNOWN"
	}
}

// InventoryUnit is the per-unit stock row the core mutates only to flip a
// unit to PICKED once its remaining quantity reaches zero.
type InventoryUnit struct {
	ID       kernel.UUID
	Quantity int
	Status   InventoryUnitStatus
}
