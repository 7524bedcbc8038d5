// Package binrepo provides data transfer objects and mapping functions for
// pick bin persistence. It implements the repository pattern for the pick bin
// aggregate, converting between domain entities and database rows.
package binrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/pickbin"

	"github.com/google/uuid"
)

// PickBinDTO represents the database structure for persisting bin aggregates.
// The barcode is globally unique; one bin exists per completed pick task.
type PickBinDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PickTaskID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Number     string    `gorm:"type:varchar(32);not null"`
	Barcode    string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status     int       `gorm:"type:smallint;not null;index"`

	PickedBy string    `gorm:"type:varchar(64)"`
	PickedAt time.Time `gorm:"not null"`
	PackedBy string    `gorm:"type:varchar(64)"`
	PackedAt *time.Time

	Items []PickBinItemDTO `gorm:"foreignKey:PickBinID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for pick bin entities.
func (PickBinDTO) TableName() string {
	return "pick_bins"
}

// PickBinItemDTO represents the database structure for persisting bin lines.
// Contents are aggregated by product variant: one row per variant per bin.
type PickBinItemDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	PickBinID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_pick_bin_items_variant"`
	SKU              string    `gorm:"type:varchar(64);not null"`
	ProductVariantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pick_bin_items_variant"`
	UPC              string    `gorm:"type:varchar(64);column:upc"`
	Barcode          string    `gorm:"type:varchar(64)"`

	Quantity    int `gorm:"type:int;not null"`
	VerifiedQty int `gorm:"type:int;not null"`
	VerifiedAt  *time.Time
}

// TableName specifies the database table name for pick bin line entities.
func (PickBinItemDTO) TableName() string {
	return "pick_bin_items"
}

// fromDomain converts a bin domain aggregate to its database representation.
func fromDomain(aggregate *pickbin.PickBin) PickBinDTO {
	binID := aggregate.ID().Bytes()
	items := make([]PickBinItemDTO, 0, len(aggregate.Items()))

	for _, item := range aggregate.Items() {
		items = append(items, PickBinItemDTO{
			ID:               item.ID().Bytes(),
			PickBinID:        binID,
			SKU:              item.SKU(),
			ProductVariantID: item.ProductVariantID().Bytes(),
			UPC:              item.UPC(),
			Barcode:          item.Barcode(),
			Quantity:         item.Quantity(),
			VerifiedQty:      item.VerifiedQty(),
			VerifiedAt:       item.VerifiedAt(),
		})
	}

	return PickBinDTO{
		ID:         binID,
		OrderID:    aggregate.OrderID().Bytes(),
		PickTaskID: aggregate.PickTaskID().Bytes(),
		Number:     aggregate.Number(),
		Barcode:    aggregate.Barcode(),
		Status:     int(aggregate.Status()),
		PickedBy:   aggregate.PickedBy(),
		PickedAt:   aggregate.PickedAt(),
		PackedBy:   aggregate.PackedBy(),
		PackedAt:   aggregate.PackedAt(),
		Items:      items,
	}
}

// toDomain converts a database DTO to a bin domain aggregate.
func toDomain(dto PickBinDTO) (*pickbin.PickBin, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	pickTaskID, err := kernel.UUIDFromBytes(dto.PickTaskID[:])
	if err != nil {
		return nil, err
	}

	items := make([]*pickbin.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return pickbin.RestorePickBin(pickbin.RestorePickBinParams{
		ID:         id,
		OrderID:    orderID,
		PickTaskID: pickTaskID,
		Number:     dto.Number,
		Barcode:    dto.Barcode,
		Status:     pickbin.Status(dto.Status),
		Items:      items,
		PickedBy:   dto.PickedBy,
		PickedAt:   dto.PickedAt,
		PackedBy:   dto.PackedBy,
		PackedAt:   dto.PackedAt,
	})
}

// itemToDomain converts a bin line DTO to its domain entity.
func itemToDomain(dto PickBinItemDTO) (*pickbin.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productVariantID, err := kernel.UUIDFromBytes(dto.ProductVariantID[:])
	if err != nil {
		return nil, err
	}

	return pickbin.RestoreItem(pickbin.NewItemParams{
		ID:               id,
		SKU:              dto.SKU,
		ProductVariantID: productVariantID,
		UPC:              dto.UPC,
		Barcode:          dto.Barcode,
		Quantity:         dto.Quantity,
	}, dto.VerifiedQty, dto.VerifiedAt)
}
