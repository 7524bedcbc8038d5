package pickbin

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("PickBinItem must be created via NewItem or RestoreItem constructor")

// Item is one SKU inside a bin. Contents are aggregated by product variant:
// one row per SKU even if the units were picked from multiple locations.
//
// Invariant: 0 <= verifiedQty <= quantity, and verifiedQty only ever grows.
// Increments are clamped to the remaining amount, so a scan can never push
// the verified count past the expected quantity.
type Item struct {
	id               kernel.UUID
	sku              string
	productVariantID kernel.UUID
	upc              string
	barcode          string

	quantity    int
	verifiedQty int
	verifiedAt  *time.Time

	isConstructed bool
}

// NewItemParams carries the creation attributes of a bin line.
type NewItemParams struct {
	ID               kernel.UUID
	SKU              string
	ProductVariantID kernel.UUID
	UPC              string
	Barcode          string
	Quantity         int
}

// NewItem creates an unverified bin line with validation.
func NewItem(params NewItemParams) (*Item, error) {
	if err := params.ID.Validate(); err != nil {
		return nil, err
	}
	if params.SKU == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if err := params.ProductVariantID.Validate(); err != nil {
		return nil, err
	}
	if params.Quantity < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", params.Quantity))
	}

	return &Item{
		id:               params.ID,
		sku:              params.SKU,
		productVariantID: params.ProductVariantID,
		upc:              params.UPC,
		barcode:          params.Barcode,
		quantity:         params.Quantity,
		isConstructed:    true,
	}, nil
}

// RestoreItem reconstructs a bin line from persistence.
func RestoreItem(params NewItemParams, verifiedQty int, verifiedAt *time.Time) (*Item, error) {
	item, err := NewItem(params)
	if err != nil {
		return nil, err
	}
	if verifiedQty < 0 || verifiedQty > item.quantity {
		return nil, errs.NewValueIsOutOfRangeError("verifiedQty", verifiedQty, 0, item.quantity)
	}

	item.verifiedQty = verifiedQty
	item.verifiedAt = verifiedAt
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

// SKU returns the stock keeping unit of the line.
func (i *Item) SKU() string { return i.sku }

// ProductVariantID returns the product variant the line aggregates.
func (i *Item) ProductVariantID() kernel.UUID { return i.productVariantID }

// UPC returns the universal product code, if known.
func (i *Item) UPC() string { return i.upc }

// Barcode returns the internal barcode, if known.
func (i *Item) Barcode() string { return i.barcode }

// Quantity returns the expected quantity in the bin.
func (i *Item) Quantity() int { return i.quantity }

// VerifiedQty returns the scan-confirmed quantity so far.
func (i *Item) VerifiedQty() int { return i.verifiedQty }

// VerifiedAt returns the time of the last counted scan, or nil.
func (i *Item) VerifiedAt() *time.Time { return i.verifiedAt }

// IsFullyVerified reports whether every expected unit has been scanned.
func (i *Item) IsFullyVerified() bool {
	return i.verifiedQty >= i.quantity
}

// Matches reports whether a scanned code resolves to this line.
// The UPC, internal barcode and SKU are all acceptable, case-insensitively.
func (i *Item) Matches(code string) bool {
	if code == "" {
		return false
	}
	for _, candidate := range []string{i.upc, i.barcode, i.sku} {
		if candidate != "" && strings.EqualFold(candidate, code) {
			return true
		}
	}
	return false
}

// verify counts a scan toward the line, clamped to the remaining amount.
// A fully verified line is a no-op returning false.
func (i *Item) verify(quantity int, at time.Time) bool {
	if i.IsFullyVerified() {
		return false
	}
	remaining := i.quantity - i.verifiedQty
	if quantity > remaining {
		quantity = remaining
	}
	i.verifiedQty += quantity
	i.verifiedAt = &at
	return true
}
