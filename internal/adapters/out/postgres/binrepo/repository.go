package binrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/pickbin"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// activeStatuses are the non-terminal bin statuses.
func activeStatuses() []int {
	return []int{int(pickbin.StatusStaged), int(pickbin.StatusPacking)}
}

// GormPickBinRepository implements PickBinRepository using GORM.
type GormPickBinRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPickBinRepository creates a new GORM pick bin repository.
func NewGormPickBinRepository(db *gorm.DB, tracker aggregateTracker) *GormPickBinRepository {
	return &GormPickBinRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new bin with its items to the database.
func (r *GormPickBinRepository) Add(ctx context.Context, aggregate *pickbin.PickBin) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing bin and its items to the database.
func (r *GormPickBinRepository) Update(ctx context.Context, aggregate *pickbin.PickBin) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// Use Session with FullSaveAssociations to properly update the item rows
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a bin by ID with its items.
func (r *GormPickBinRepository) Get(ctx context.Context, id kernel.UUID) (*pickbin.PickBin, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PickBinDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pickBin", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByBarcode retrieves a bin by its globally unique tote barcode.
func (r *GormPickBinRepository) GetByBarcode(ctx context.Context, barcode string) (*pickbin.PickBin, error) {
	if barcode == "" {
		return nil, errs.NewValueIsRequiredError("barcode")
	}

	var dto PickBinDTO
	if err := r.withItems(ctx).First(&dto, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("barcode", barcode)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByOrder retrieves the non-terminal bin for an order.
func (r *GormPickBinRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*pickbin.PickBin, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto PickBinDTO
	err := r.withItems(ctx).
		First(&dto, "order_id = ? AND status IN ?", orderID.Bytes(), activeStatuses()).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pickBin", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ClaimForPacking flips a STAGED bin to PACKING. The status predicate makes
// concurrent claimers serialize on the row; the loser sees zero rows
// affected.
func (r *GormPickBinRepository) ClaimForPacking(ctx context.Context, id kernel.UUID) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&PickBinDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), int(pickbin.StatusStaged)).
		Update("status", int(pickbin.StatusPacking))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// withItems preloads the bin lines in a stable order.
func (r *GormPickBinRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sku ASC")
	})
}
