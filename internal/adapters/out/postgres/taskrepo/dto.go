// Package taskrepo provides data transfer objects and mapping functions for
// task persistence. It implements the repository pattern for the task
// aggregate, converting between domain entities and database rows.
package taskrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskDTO represents the database structure for persisting task aggregates.
// CreatedAt is stamped on insert and never updated; the stale-task cleanup
// query cuts on it.
//
// The partial unique index on (order_id, kind) over non-terminal statuses
// backs the one-active-task-per-kind guard: concurrent generators racing past
// the existence check lose with a constraint violation instead of
// double-creating.
type TaskDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index:idx_tasks_order_kind;uniqueIndex:udx_tasks_active_order_kind,where:status IN (1,2)"`
	Number  string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	Kind    int       `gorm:"type:smallint;not null;index:idx_tasks_order_kind;uniqueIndex:udx_tasks_active_order_kind"`
	Status  int       `gorm:"type:smallint;not null;index"`

	StartedAt   *time.Time
	CompletedAt *time.Time

	PackedWeightValue *decimal.Decimal `gorm:"type:numeric(12,3)"`
	PackedWeightUnit  string           `gorm:"type:varchar(8)"`
	PackedLength      *decimal.Decimal `gorm:"type:numeric(12,2)"`
	PackedWidth       *decimal.Decimal `gorm:"type:numeric(12,2)"`
	PackedHeight      *decimal.Decimal `gorm:"type:numeric(12,2)"`
	PackedDimsUnit    string           `gorm:"type:varchar(8)"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;<-:create"`

	Items []TaskItemDTO `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for task entities.
func (TaskDTO) TableName() string {
	return "tasks"
}

// TaskItemDTO represents the database structure for persisting task lines.
// Sequence is unique per task.
type TaskItemDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TaskID       uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_task_items_task_sequence"`
	OrderItemID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	AllocationID *uuid.UUID `gorm:"type:uuid"`

	SKU              string    `gorm:"type:varchar(64);not null"`
	ProductVariantID uuid.UUID `gorm:"type:uuid;not null"`
	Description      string    `gorm:"type:varchar(255)"`
	UPC              string    `gorm:"type:varchar(64);column:upc"`
	Barcode          string    `gorm:"type:varchar(64)"`

	LocationID      *uuid.UUID `gorm:"type:uuid"`
	LocationName    string     `gorm:"type:varchar(255)"`
	LocationBarcode string     `gorm:"type:varchar(64)"`

	Sequence int `gorm:"type:int;not null;uniqueIndex:idx_task_items_task_sequence"`
	Status   int `gorm:"type:smallint;not null"`

	QuantityRequired  int  `gorm:"type:int;not null"`
	QuantityCompleted int  `gorm:"type:int;not null"`
	Scanned           bool `gorm:"not null"`

	CompletedAt *time.Time
	CompletedBy string `gorm:"type:varchar(64)"`
}

// TableName specifies the database table name for task line entities.
func (TaskItemDTO) TableName() string {
	return "task_items"
}

// fromDomain converts a task domain aggregate to its database representation.
func fromDomain(aggregate *task.Task) TaskDTO {
	taskID := aggregate.ID().Bytes()
	items := make([]TaskItemDTO, 0, len(aggregate.Items()))

	for _, item := range aggregate.Items() {
		items = append(items, TaskItemDTO{
			ID:                item.ID().Bytes(),
			TaskID:            taskID,
			OrderItemID:       item.OrderItemID().Bytes(),
			AllocationID:      optionalUUID(item.AllocationID()),
			SKU:               item.SKU(),
			ProductVariantID:  item.ProductVariantID().Bytes(),
			Description:       item.Description(),
			UPC:               item.UPC(),
			Barcode:           item.Barcode(),
			LocationID:        optionalUUID(item.LocationID()),
			LocationName:      item.LocationName(),
			LocationBarcode:   item.LocationBarcode(),
			Sequence:          item.Sequence(),
			Status:            int(item.Status()),
			QuantityRequired:  item.QuantityRequired(),
			QuantityCompleted: item.QuantityCompleted(),
			Scanned:           item.Scanned(),
			CompletedAt:       item.CompletedAt(),
			CompletedBy:       item.CompletedBy(),
		})
	}

	dto := TaskDTO{
		ID:          taskID,
		OrderID:     aggregate.OrderID().Bytes(),
		Number:      aggregate.Number(),
		Kind:        int(aggregate.Kind()),
		Status:      int(aggregate.Status()),
		StartedAt:   aggregate.StartedAt(),
		CompletedAt: aggregate.CompletedAt(),
		Items:       items,
	}

	if w := aggregate.PackedWeight(); w != nil {
		value := w.Value()
		dto.PackedWeightValue = &value
		dto.PackedWeightUnit = w.Unit()
	}
	if d := aggregate.PackedDimensions(); d != nil {
		length, width, height := d.Length(), d.Width(), d.Height()
		dto.PackedLength = &length
		dto.PackedWidth = &width
		dto.PackedHeight = &height
		dto.PackedDimsUnit = d.Unit()
	}

	return dto
}

// toDomain converts a database DTO to a task domain aggregate.
// Items are restored in sequence order via RestoreTask, which revalidates
// them and recomputes the progress counters.
func toDomain(dto TaskDTO) (*task.Task, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	items := make([]*task.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	packedWeight, packedDimensions, err := measurementsToDomain(dto)
	if err != nil {
		return nil, err
	}

	return task.RestoreTask(task.RestoreTaskParams{
		ID:               id,
		OrderID:          orderID,
		Number:           dto.Number,
		Kind:             task.Kind(dto.Kind),
		Status:           task.Status(dto.Status),
		Items:            items,
		StartedAt:        dto.StartedAt,
		CompletedAt:      dto.CompletedAt,
		PackedWeight:     packedWeight,
		PackedDimensions: packedDimensions,
	})
}

// itemToDomain converts a task line DTO to its domain entity.
func itemToDomain(dto TaskItemDTO) (*task.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
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
	allocationID, err := optionalUUIDToDomain(dto.AllocationID)
	if err != nil {
		return nil, err
	}
	locationID, err := optionalUUIDToDomain(dto.LocationID)
	if err != nil {
		return nil, err
	}

	return task.RestoreItem(task.RestoreItemParams{
		NewItemParams: task.NewItemParams{
			ID:               id,
			OrderItemID:      orderItemID,
			AllocationID:     allocationID,
			SKU:              dto.SKU,
			ProductVariantID: productVariantID,
			Description:      dto.Description,
			UPC:              dto.UPC,
			Barcode:          dto.Barcode,
			LocationID:       locationID,
			LocationName:     dto.LocationName,
			LocationBarcode:  dto.LocationBarcode,
			Sequence:         dto.Sequence,
			QuantityRequired: dto.QuantityRequired,
		},
		Status:            task.ItemStatus(dto.Status),
		QuantityCompleted: dto.QuantityCompleted,
		Scanned:           dto.Scanned,
		CompletedAt:       dto.CompletedAt,
		CompletedBy:       dto.CompletedBy,
	})
}

// measurementsToDomain rebuilds the packed weight and dimensions value
// objects from their columns, when present.
func measurementsToDomain(dto TaskDTO) (*task.Weight, *task.Dimensions, error) {
	var weight *task.Weight
	if dto.PackedWeightValue != nil {
		w, err := task.NewWeight(*dto.PackedWeightValue, dto.PackedWeightUnit)
		if err != nil {
			return nil, nil, err
		}
		weight = &w
	}

	var dimensions *task.Dimensions
	if dto.PackedLength != nil && dto.PackedWidth != nil && dto.PackedHeight != nil {
		d, err := task.NewDimensions(*dto.PackedLength, *dto.PackedWidth, *dto.PackedHeight, dto.PackedDimsUnit)
		if err != nil {
			return nil, nil, err
		}
		dimensions = &d
	}

	return weight, dimensions, nil
}

// optionalUUID converts an optional domain UUID to its column value.
func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

// optionalUUIDToDomain converts an optional column value to a domain UUID.
func optionalUUIDToDomain(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
