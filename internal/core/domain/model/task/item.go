package task

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when a TaskItem instance was not created
// through NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("TaskItem must be created via NewItem or RestoreItem constructor")

// ItemStatus represents the state of a single line of work within a task.
// Status is monotone: a finished item never returns to Pending through this
// core (a reopen operation is not exposed here).
type ItemStatus int

const (
	// ItemStatusUnknown represents an invalid or undefined status.
	ItemStatusUnknown ItemStatus = iota

	// ItemPending means the line has not been confirmed yet.
	ItemPending

	// ItemCompleted means the full required quantity was confirmed.
	ItemCompleted

	// ItemShort means the line was confirmed below the required quantity
	// because stock ran out. A short pick is a degraded success, not a
	// failure.
	ItemShort

	// ItemSkipped means the line was deliberately passed over.
	ItemSkipped
)

func getItemStatusStrings() map[ItemStatus]string {
	return map[ItemStatus]string{
		ItemStatusUnknown: "UNKNOWN",
		ItemPending:       "PENDING",
		ItemCompleted:     "COMPLETED",
		ItemShort:         "SHORT",
		ItemSkipped:       "SKIPPED",
	}
}

// Validate checks if the ItemStatus value is valid.
func (s ItemStatus) Validate() error {
	switch s {
	case ItemPending, ItemCompleted, ItemShort, ItemSkipped:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("item status is invalid",
			fmt.Errorf("%d is not a valid task item status", s))
	}
}

// String returns the wire-format name of the item status.
func (s ItemStatus) String() string {
	if str, ok := getItemStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsFinished reports whether the line no longer needs work.
// Finished lines count toward task progress and are excluded from the
// scan-lookup reverse index.
func (s ItemStatus) IsFinished() bool {
	return s == ItemCompleted || s == ItemShort || s == ItemSkipped
}

// Item is one line of work within a Task: an (order item, SKU, source
// location) tuple. Pick items carry the location descriptors of the
// allocation they came from; pack items mirror the picked lines with no
// location. The scannable codes are denormalized onto the item at creation
// so scan matching needs no extra lookups.
type Item struct {
	id          kernel.UUID
	orderItemID kernel.UUID

	// allocationID links back to the external allocation row this line was
	// generated from. Pack items have none.
	allocationID *kernel.UUID

	sku              string
	productVariantID kernel.UUID
	description      string

	upc     string
	barcode string

	locationID      *kernel.UUID
	locationName    string
	locationBarcode string

	// sequence orders the line within its task (1..N), assigned from the
	// pick-path ordering at creation. Unique within the task.
	sequence int

	status            ItemStatus
	quantityRequired  int
	quantityCompleted int
	scanned           bool

	completedAt *time.Time
	completedBy string

	isConstructed bool
}

// NewItemParams carries the creation attributes of a task line.
type NewItemParams struct {
	ID               kernel.UUID
	OrderItemID      kernel.UUID
	AllocationID     *kernel.UUID
	SKU              string
	ProductVariantID kernel.UUID
	Description      string
	UPC              string
	Barcode          string
	LocationID       *kernel.UUID
	LocationName     string
	LocationBarcode  string
	Sequence         int
	QuantityRequired int
}

// NewItem creates a pending task line with validation.
// Sequence must be positive and the required quantity greater than zero.
func NewItem(params NewItemParams) (*Item, error) {
	if err := params.ID.Validate(); err != nil {
		return nil, err
	}
	if err := params.OrderItemID.Validate(); err != nil {
		return nil, err
	}
	if params.SKU == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if params.Sequence < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("sequence is invalid",
			fmt.Errorf("%d is not greater than 0", params.Sequence))
	}
	if params.QuantityRequired < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantityRequired is invalid",
			fmt.Errorf("%d is not greater than 0", params.QuantityRequired))
	}

	return &Item{
		id:               params.ID,
		orderItemID:      params.OrderItemID,
		allocationID:     params.AllocationID,
		sku:              params.SKU,
		productVariantID: params.ProductVariantID,
		description:      params.Description,
		upc:              params.UPC,
		barcode:          params.Barcode,
		locationID:       params.LocationID,
		locationName:     params.LocationName,
		locationBarcode:  params.LocationBarcode,
		sequence:         params.Sequence,
		status:           ItemPending,
		quantityRequired: params.QuantityRequired,
		isConstructed:    true,
	}, nil
}

// RestoreItemParams carries the full persisted state of a task line.
type RestoreItemParams struct {
	NewItemParams
	Status            ItemStatus
	QuantityCompleted int
	Scanned           bool
	CompletedAt       *time.Time
	CompletedBy       string
}

// RestoreItem reconstructs a task line from persistence.
func RestoreItem(params RestoreItemParams) (*Item, error) {
	item, err := NewItem(params.NewItemParams)
	if err != nil {
		return nil, err
	}
	if err = params.Status.Validate(); err != nil {
		return nil, err
	}
	if params.QuantityCompleted < 0 || params.QuantityCompleted > item.quantityRequired {
		return nil, errs.NewValueIsOutOfRangeError("quantityCompleted",
			params.QuantityCompleted, 0, item.quantityRequired)
	}

	item.status = params.Status
	item.quantityCompleted = params.QuantityCompleted
	item.scanned = params.Scanned
	item.completedAt = params.CompletedAt
	item.completedBy = params.CompletedBy
	return item, nil
}

// Validate ensures the Item instance was properly constructed.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the line's unique identifier.
func (i *Item) ID() kernel.UUID { return i.id }

// OrderItemID returns the order line this task line fulfills.
func (i *Item) OrderItemID() kernel.UUID { return i.orderItemID }

// AllocationID returns the linked allocation row, or nil for pack lines.
func (i *Item) AllocationID() *kernel.UUID { return i.allocationID }

// SKU returns the stock keeping unit of the line.
func (i *Item) SKU() string { return i.sku }

// ProductVariantID returns the product variant of the line.
func (i *Item) ProductVariantID() kernel.UUID { return i.productVariantID }

// Description returns the human-readable product description.
func (i *Item) Description() string { return i.description }

// UPC returns the universal product code, if known.
func (i *Item) UPC() string { return i.upc }

// Barcode returns the internal barcode, if known.
func (i *Item) Barcode() string { return i.barcode }

// LocationID returns the source location, or nil for pack lines.
func (i *Item) LocationID() *kernel.UUID { return i.locationID }

// LocationName returns the source location descriptor.
func (i *Item) LocationName() string { return i.locationName }

// LocationBarcode returns the scannable code of the source location.
func (i *Item) LocationBarcode() string { return i.locationBarcode }

// Sequence returns the line's position within the task.
func (i *Item) Sequence() int { return i.sequence }

// Status returns the current status of the line.
func (i *Item) Status() ItemStatus { return i.status }

// QuantityRequired returns the asked-for quantity.
func (i *Item) QuantityRequired() int { return i.quantityRequired }

// QuantityCompleted returns the confirmed quantity.
// Always 0 <= QuantityCompleted <= QuantityRequired.
func (i *Item) QuantityCompleted() int { return i.quantityCompleted }

// Scanned reports whether the line was confirmed via a barcode scan.
func (i *Item) Scanned() bool { return i.scanned }

// CompletedAt returns when the line was finished, or nil.
func (i *Item) CompletedAt() *time.Time { return i.completedAt }

// CompletedBy returns who finished the line.
func (i *Item) CompletedBy() string { return i.completedBy }

// ConfirmPick finishes the line with the given quantity.
//
// A quantity at or above the requirement completes the line at the full
// required quantity; anything lower records a short pick with the confirmed
// quantity. Short picks never fail the operation, they degrade it. The
// confirmed quantity never exceeds the requirement.
//
// Returns an error if the line is already finished.
func (i *Item) ConfirmPick(quantity int, scanned bool, by string, at time.Time) error {
	if i.status.IsFinished() {
		return errs.NewInvalidStateError("TaskItem", i.status.String(), "confirm pick")
	}
	if quantity < 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 0, i.quantityRequired)
	}

	if quantity >= i.quantityRequired {
		i.status = ItemCompleted
		i.quantityCompleted = i.quantityRequired
	} else {
		i.status = ItemShort
		i.quantityCompleted = quantity
	}
	i.scanned = scanned
	i.completedBy = by
	i.completedAt = &at
	return nil
}

// VerifyPack finishes a pack line at its full quantity. Packing has no
// short-pick concept.
//
// An already-finished line is a no-op returning false, so a double-scan is
// never mistaken for progress.
func (i *Item) VerifyPack(by string, at time.Time) bool {
	if i.status.IsFinished() {
		return false
	}
	i.status = ItemCompleted
	i.quantityCompleted = i.quantityRequired
	i.scanned = true
	i.completedBy = by
	i.completedAt = &at
	return true
}

// IsShort reports whether the line was confirmed below its requirement.
func (i *Item) IsShort() bool {
	return i.status == ItemShort
}
