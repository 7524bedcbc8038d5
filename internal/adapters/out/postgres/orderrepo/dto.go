// Package orderrepo provides data transfer objects and mapping functions for
// the external order, allocation and inventory stores. These are read models
// with narrow write operations, not aggregates: the fulfillment core reads
// snapshots and requests targeted column updates.
package orderrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure of an order snapshot.
type OrderDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	Status int       `gorm:"type:smallint;not null"`

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents the database structure of one sellable order line.
type OrderItemDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU              string    `gorm:"type:varchar(64);not null"`
	ProductVariantID uuid.UUID `gorm:"type:uuid;not null"`
	Description      string    `gorm:"type:varchar(255)"`
	Quantity         int       `gorm:"type:int;not null"`
	PickedQty        int       `gorm:"type:int;not null"`
	UPC              string    `gorm:"type:varchar(64);column:upc"`
	Barcode          string    `gorm:"type:varchar(64)"`
}

// TableName specifies the database table name for order line entities.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// AllocationDTO represents the database structure of an inventory reservation
// produced by the allocation engine.
type AllocationDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderItemID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU              string    `gorm:"type:varchar(64);not null"`
	ProductVariantID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity         int       `gorm:"type:int;not null"`
	Status           int       `gorm:"type:smallint;not null;index"`

	LocationID      uuid.UUID `gorm:"type:uuid;not null"`
	LocationName    string    `gorm:"type:varchar(255)"`
	LocationBarcode string    `gorm:"type:varchar(64)"`

	PickSequence    *int       `gorm:"type:int"`
	InventoryUnitID *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for allocation entities.
func (AllocationDTO) TableName() string {
	return "allocations"
}

// InventoryUnitDTO represents the database structure of a tracked stock unit.
type InventoryUnitDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity int       `gorm:"type:int;not null"`
	Status   int       `gorm:"type:smallint;not null"`
}

// TableName specifies the database table name for inventory unit entities.
func (InventoryUnitDTO) TableName() string {
	return "inventory_units"
}

// orderToDomain converts an order DTO to its read model.
func orderToDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status := order.Status(dto.Status)
	if err = status.Validate(); err != nil {
		return nil, err
	}

	items := make([]order.OrderItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := orderItemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return &order.Order{
		ID:     id,
		Number: dto.Number,
		Status: status,
		Items:  items,
	}, nil
}

// orderItemToDomain converts an order line DTO to its read model.
func orderItemToDomain(dto OrderItemDTO) (order.OrderItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.OrderItem{}, err
	}
	productVariantID, err := kernel.UUIDFromBytes(dto.ProductVariantID[:])
	if err != nil {
		return order.OrderItem{}, err
	}

	return order.OrderItem{
		ID:               id,
		SKU:              dto.SKU,
		ProductVariantID: productVariantID,
		Description:      dto.Description,
		Quantity:         dto.Quantity,
		PickedQty:        dto.PickedQty,
		UPC:              dto.UPC,
		Barcode:          dto.Barcode,
	}, nil
}

// allocationToDomain converts an allocation DTO to its read model.
func allocationToDomain(dto AllocationDTO) (*order.Allocation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	orderItemID, err := kernel.UUIDFromBytes(dto.OrderItemID[:])
	if err != nil {
		return nil, err
	}
	productVariantID, err := kernel.UUIDFromBytes(dto.ProductVariantID[:])
	if err != nil {
		return nil, err
	}
	locationID, err := kernel.UUIDFromBytes(dto.LocationID[:])
	if err != nil {
		return nil, err
	}
	status := order.AllocationStatus(dto.Status)
	if err = status.Validate(); err != nil {
		return nil, err
	}

	var inventoryUnitID *kernel.UUID
	if dto.InventoryUnitID != nil {
		converted, unitErr := kernel.UUIDFromBytes((*dto.InventoryUnitID)[:])
		if unitErr != nil {
			return nil, unitErr
		}
		inventoryUnitID = &converted
	}

	return &order.Allocation{
		ID:               id,
		OrderID:          orderID,
		OrderItemID:      orderItemID,
		SKU:              dto.SKU,
		ProductVariantID: productVariantID,
		Quantity:         dto.Quantity,
		Status:           status,
		LocationID:       locationID,
		LocationName:     dto.LocationName,
		LocationBarcode:  dto.LocationBarcode,
		PickSequence:     dto.PickSequence,
		InventoryUnitID:  inventoryUnitID,
	}, nil
}

// inventoryUnitToDomain converts an inventory unit DTO to its read model.
func inventoryUnitToDomain(dto InventoryUnitDTO) (*order.InventoryUnit, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return &order.InventoryUnit{
		ID:       id,
		Quantity: dto.Quantity,
		Status:   order.InventoryUnitStatus(dto.Status),
	}, nil
}
