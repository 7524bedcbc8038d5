package pickbin

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrPickBinIsNotConstructed is returned when a PickBin instance was not
	// created through the NewPickBin or RestorePickBin factory methods.
	ErrPickBinIsNotConstructed = errors.New("PickBin must be created via NewPickBin or RestorePickBin constructor")
)

// PickBin represents a physical staging tote created when a pick task
// completes. It aggregates the picked units by SKU and tracks verification
// at the pack station.
type PickBin struct {
	id         kernel.UUID
	orderID    kernel.UUID
	pickTaskID kernel.UUID

	// number is the human-readable identifier printed on the tote label,
	// barcode is the globally unique scannable code.
	number  string
	barcode string

	status Status
	items  []*Item

	pickedBy string
	pickedAt time.Time

	packedBy string
	packedAt *time.Time

	isConstructed bool
}

// NewPickBin creates a staged bin with validation.
// Items must be non-empty with at most one line per product variant.
func NewPickBin(
	id, orderID, pickTaskID kernel.UUID,
	number, barcode string,
	items []*Item,
	pickedBy string,
	pickedAt time.Time,
) (*PickBin, error) {
	bin := &PickBin{
		status:        StatusStaged,
		pickedBy:      pickedBy,
		pickedAt:      pickedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		bin.setID(id),
		bin.setOrderID(orderID),
		bin.setPickTaskID(pickTaskID),
		bin.setNumber(number),
		bin.setBarcode(barcode),
		bin.setItems(items),
	); err != nil {
		return nil, err
	}

	return bin, nil
}

// RestorePickBinParams carries the full persisted state of a bin.
type RestorePickBinParams struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	PickTaskID kernel.UUID
	Number     string
	Barcode    string
	Status     Status
	Items      []*Item
	PickedBy   string
	PickedAt   time.Time
	PackedBy   string
	PackedAt   *time.Time
}

// RestorePickBin reconstructs a bin from persistence.
func RestorePickBin(params RestorePickBinParams) (*PickBin, error) {
	bin, err := NewPickBin(params.ID, params.OrderID, params.PickTaskID,
		params.Number, params.Barcode, params.Items, params.PickedBy, params.PickedAt)
	if err != nil {
		return nil, err
	}
	if err = params.Status.Validate(); err != nil {
		return nil, err
	}

	bin.status = params.Status
	bin.packedBy = params.PackedBy
	bin.packedAt = params.PackedAt
	return bin, nil
}

// Validate ensures the PickBin instance was properly constructed.
func (b *PickBin) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrPickBinIsNotConstructed
	}
	return nil
}

// IsEqual compares two bins by their unique identifiers.
func (b *PickBin) IsEqual(other *PickBin) bool {
	return other != nil && b.id.IsEqual(other.id)
}

// ID returns the bin's unique identifier.
func (b *PickBin) ID() kernel.UUID { return b.id }

// OrderID returns the order the bin stages units for.
func (b *PickBin) OrderID() kernel.UUID { return b.orderID }

// PickTaskID returns the completed pick task the bin was created from.
func (b *PickBin) PickTaskID() kernel.UUID { return b.pickTaskID }

// Number returns the human-readable bin number.
func (b *PickBin) Number() string { return b.number }

// Barcode returns the globally unique scannable code of the tote.
func (b *PickBin) Barcode() string { return b.barcode }

// Status returns the current status of the bin.
func (b *PickBin) Status() Status { return b.status }

// Items returns the per-SKU lines of the bin.
func (b *PickBin) Items() []*Item { return b.items }

// PickedBy returns who completed the pick that filled the bin.
func (b *PickBin) PickedBy() string { return b.pickedBy }

// PickedAt returns when the bin was staged.
func (b *PickBin) PickedAt() time.Time { return b.pickedAt }

// PackedBy returns who completed packing from the bin.
func (b *PickBin) PackedBy() string { return b.packedBy }

// PackedAt returns when packing from the bin finished, or nil.
func (b *PickBin) PackedAt() *time.Time { return b.packedAt }

// Item returns the line for the given product variant, or nil if absent.
func (b *PickBin) Item(productVariantID kernel.UUID) *Item {
	for _, item := range b.items {
		if item.ProductVariantID().IsEqual(productVariantID) {
			return item
		}
	}
	return nil
}

// MatchItem resolves a scanned code against the UPC, internal barcode or SKU
// of the bin lines, case-insensitively. Returns nil if nothing matches.
func (b *PickBin) MatchItem(code string) *Item {
	for _, item := range b.items {
		if item.Matches(code) {
			return item
		}
	}
	return nil
}

// Claim performs the first-touch Staged->Packing transition.
//
// The first successful lookup at a pack station commits the transition and
// returns claimed=true; repeated lookups afterward are pure reads returning
// claimed=false. Terminal bins cannot be claimed.
func (b *PickBin) Claim() (claimed bool, err error) {
	switch b.status {
	case StatusStaged:
		b.status = StatusPacking
		return true, nil
	case StatusPacking:
		return false, nil
	default:
		return false, errs.NewInvalidStateError("PickBin", b.status.String(), "claim")
	}
}

// VerifyItem counts a scan toward the line matching the code.
//
// A line already at its full verified quantity short-circuits as a no-op
// returning verified=false, which makes double-scans idempotent. Otherwise
// the verified quantity grows by at most the remaining amount.
// allVerified reports whether every line in the bin is now fully verified.
func (b *PickBin) VerifyItem(code string, quantity int, at time.Time) (verified, allVerified bool, err error) {
	if b.status.IsTerminal() {
		return false, false, errs.NewInvalidStateError("PickBin", b.status.String(), "verify item")
	}
	if quantity < 1 {
		return false, false, errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	item := b.MatchItem(code)
	if item == nil {
		return false, false, errs.NewObjectNotFoundError("barcode", code)
	}

	verified = item.verify(quantity, at)
	return verified, b.AllItemsVerified(), nil
}

// AllItemsVerified reports whether every line is fully verified.
func (b *PickBin) AllItemsVerified() bool {
	for _, item := range b.items {
		if !item.IsFullyVerified() {
			return false
		}
	}
	return true
}

// UnverifiedSKUs returns the SKUs still missing scans.
func (b *PickBin) UnverifiedSKUs() []string {
	skus := make([]string, 0)
	for _, item := range b.items {
		if !item.IsFullyVerified() {
			skus = append(skus, item.SKU())
		}
	}
	return skus
}

// Complete marks the bin terminal, recording the packer and timestamp.
// Only allowed once every line is fully verified.
func (b *PickBin) Complete(packedBy string, at time.Time) error {
	if b.status.IsTerminal() {
		return errs.NewInvalidStateError("PickBin", b.status.String(), "complete")
	}
	if !b.AllItemsVerified() {
		return errs.NewInvalidStateErrorWithCause("PickBin", b.status.String(), "complete",
			fmt.Errorf("unverified items: %v", b.UnverifiedSKUs()))
	}

	b.status = StatusCompleted
	b.packedBy = packedBy
	b.packedAt = &at
	return nil
}

// Cancel withdraws the bin.
func (b *PickBin) Cancel() error {
	if b.status.IsTerminal() {
		return errs.NewInvalidStateError("PickBin", b.status.String(), "cancel")
	}
	b.status = StatusCancelled
	return nil
}

func (b *PickBin) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *PickBin) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	b.orderID = orderID
	return nil
}

func (b *PickBin) setPickTaskID(pickTaskID kernel.UUID) error {
	if err := pickTaskID.Validate(); err != nil {
		return err
	}
	b.pickTaskID = pickTaskID
	return nil
}

func (b *PickBin) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("number")
	}
	b.number = number
	return nil
}

func (b *PickBin) setBarcode(barcode string) error {
	if barcode == "" {
		return errs.NewValueIsRequiredError("barcode")
	}
	b.barcode = barcode
	return nil
}

func (b *PickBin) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[kernel.UUID]bool, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if seen[item.ProductVariantID()] {
			return errs.NewValueIsInvalidErrorWithCause("items are invalid",
				fmt.Errorf("product variant %s is duplicated", item.ProductVariantID()))
		}
		seen[item.ProductVariantID()] = true
	}

	b.items = items
	return nil
}
