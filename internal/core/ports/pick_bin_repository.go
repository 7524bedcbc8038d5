package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/pickbin"
)

// PickBinRepository defines the persistence contract for pick bin aggregates.
type PickBinRepository interface {
	// Add persists a new bin aggregate with its items.
	Add(ctx context.Context, aggregate *pickbin.PickBin) error

	// Update persists changes to an existing bin aggregate and its items.
	Update(ctx context.Context, aggregate *pickbin.PickBin) error

	// Get retrieves a bin aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*pickbin.PickBin, error)

	// GetByBarcode retrieves a bin aggregate by its globally unique barcode.
	// Returns errs.ErrObjectNotFound when the barcode resolves to nothing.
	GetByBarcode(ctx context.Context, barcode string) (*pickbin.PickBin, error)

	// GetActiveByOrder retrieves the non-terminal bin for an order, if any.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*pickbin.PickBin, error)

	// ClaimForPacking moves a STAGED bin to PACKING with a conditional
	// update. Returns true when this call performed the transition, false
	// when another packer claimed the bin first.
	ClaimForPacking(ctx context.Context, id kernel.UUID) (bool, error)
}
