package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Get retrieves the order snapshot with its items.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&dto, "id = ?", id.Bytes()).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return orderToDomain(dto)
}

// UpdateStatus requests a transition to the given status.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id kernel.UUID, status order.Status) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Update("status", int(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}

	return nil
}

// IncrementItemPickedQty adds delta to an order item's picked quantity.
// The increment happens in the database so concurrent confirmations on
// different items never overwrite each other.
func (r *GormOrderRepository) IncrementItemPickedQty(ctx context.Context, itemID kernel.UUID, delta int) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderItemDTO{}).
		Where("id = ?", itemID.Bytes()).
		Update("picked_qty", gorm.Expr("picked_qty + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderItem", itemID.String())
	}

	return nil
}

// SetItemPickedQty overwrites an order item's picked quantity.
func (r *GormOrderRepository) SetItemPickedQty(ctx context.Context, itemID kernel.UUID, quantity int) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	if quantity < 0 {
		return errs.NewValueIsInvalidError("quantity")
	}

	result := r.db.WithContext(ctx).
		Model(&OrderItemDTO{}).
		Where("id = ?", itemID.Bytes()).
		Update("picked_qty", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderItem", itemID.String())
	}

	return nil
}

// GormAllocationRepository implements AllocationRepository using GORM.
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GORM allocation repository.
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// Get retrieves one allocation row.
func (r *GormAllocationRepository) Get(ctx context.Context, id kernel.UUID) (*order.Allocation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AllocationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("allocation", id.String())
		}
		return nil, err
	}

	return allocationToDomain(dto)
}

// GetAllocatedByOrder retrieves the order's rows still in ALLOCATED status.
// Pick-path ordering is applied by the caller; rows come back in stable
// pick_sequence order with unsequenced rows last.
func (r *GormAllocationRepository) GetAllocatedByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*order.Allocation, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AllocationDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID.Bytes(), int(order.AllocationAllocated)).
		Order("pick_sequence ASC NULLS LAST").
		Find(&dtos).
		Error
	if err != nil {
		return nil, err
	}

	allocations := make([]*order.Allocation, 0, len(dtos))
	for _, dto := range dtos {
		allocation, allocErr := allocationToDomain(dto)
		if allocErr != nil {
			return nil, allocErr
		}
		allocations = append(allocations, allocation)
	}

	return allocations, nil
}

// UpdateStatus moves one allocation to the given status.
func (r *GormAllocationRepository) UpdateStatus(
	ctx context.Context,
	id kernel.UUID,
	status order.AllocationStatus,
) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&AllocationDTO{}).
		Where("id = ?", id.Bytes()).
		Update("status", int(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("allocation", id.String())
	}

	return nil
}

// PromoteAllocatedToPicked moves every remaining ALLOCATED row of the order
// to PICKED. Zero affected rows is not an error: the normal pick flow has
// usually updated every row already.
func (r *GormAllocationRepository) PromoteAllocatedToPicked(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&AllocationDTO{}).
		Where("order_id = ? AND status = ?", orderID.Bytes(), int(order.AllocationAllocated)).
		Update("status", int(order.AllocationPicked)).
		Error
}

// GormInventoryRepository implements InventoryRepository using GORM.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GORM inventory repository.
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Get retrieves one inventory unit.
func (r *GormInventoryRepository) Get(ctx context.Context, id kernel.UUID) (*order.InventoryUnit, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto InventoryUnitDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("inventoryUnit", id.String())
		}
		return nil, err
	}

	return inventoryUnitToDomain(dto)
}

// MarkPicked flips an exhausted unit to PICKED.
func (r *GormInventoryRepository) MarkPicked(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&InventoryUnitDTO{}).
		Where("id = ?", id.Bytes()).
		Update("status", int(order.InventoryUnitPicked))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("inventoryUnit", id.String())
	}

	return nil
}
