package order

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// Order is the snapshot of an order as loaded from the external order store.
// It is a read model, not an aggregate: the core never mutates it directly,
// it requests status transitions and picked-quantity updates through the
// repository port.
type Order struct {
	ID     kernel.UUID
	Number string
	Status Status
	Items  []OrderItem
}

// OrderItem is one sellable line of the order, carrying the scannable codes
// handheld devices may present and the running picked quantity.
type OrderItem struct {
	ID               kernel.UUID
	SKU              string
	ProductVariantID kernel.UUID
	Description      string
	Quantity         int
	PickedQty        int

	// UPC and Barcode are optional; any non-empty one is accepted by scan
	// matching alongside the SKU.
	UPC     string
	Barcode string
}

// Item returns the order item with the given ID, or nil if absent.
func (o *Order) Item(id kernel.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID.IsEqual(id) {
			return &o.Items[i]
		}
	}
	return nil
}
