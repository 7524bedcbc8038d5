package taskrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// activeStatuses are the non-terminal task statuses the single-active-task
// guard and the stale-task cleanup query filter on.
func activeStatuses() []int {
	return []int{int(task.StatusPending), int(task.StatusInProgress)}
}

// GormTaskRepository implements TaskRepository using GORM.
type GormTaskRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTaskRepository creates a new GORM task repository.
func NewGormTaskRepository(db *gorm.DB, tracker aggregateTracker) *GormTaskRepository {
	return &GormTaskRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new task with its items to the database.
func (r *GormTaskRepository) Add(ctx context.Context, aggregate *task.Task) error {
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

// Update saves an existing task and its items to the database.
func (r *GormTaskRepository) Update(ctx context.Context, aggregate *task.Task) error {
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

// Get retrieves a task by ID with its items in sequence order.
func (r *GormTaskRepository) Get(ctx context.Context, id kernel.UUID) (*task.Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TaskDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByItemID retrieves the task owning the given line.
func (r *GormTaskRepository) GetByItemID(ctx context.Context, itemID kernel.UUID) (*task.Task, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var itemDTO TaskItemDTO
	if err := r.db.WithContext(ctx).First(&itemDTO, "id = ?", itemID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("taskItemId", itemID.String())
		}
		return nil, err
	}

	taskID, err := kernel.UUIDFromBytes(itemDTO.TaskID[:])
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, taskID)
}

// GetActiveByOrderAndKind retrieves the non-terminal task of the given kind
// for an order. The single-active-task guard ensures at most one exists.
func (r *GormTaskRepository) GetActiveByOrderAndKind(
	ctx context.Context,
	orderID kernel.UUID,
	kind task.Kind,
) (*task.Task, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto TaskDTO
	err := r.withItems(ctx).
		First(&dto, "order_id = ? AND kind = ? AND status IN ?", orderID.Bytes(), int(kind), activeStatuses()).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetCompletedByOrderAndKind retrieves the most recently completed task of
// the given kind for an order.
func (r *GormTaskRepository) GetCompletedByOrderAndKind(
	ctx context.Context,
	orderID kernel.UUID,
	kind task.Kind,
) (*task.Task, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto TaskDTO
	err := r.withItems(ctx).
		Where("order_id = ? AND kind = ? AND status = ?", orderID.Bytes(), int(kind), int(task.StatusCompleted)).
		Order("completed_at DESC").
		First(&dto).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetStaleActive retrieves non-terminal tasks created before the cutoff,
// oldest first.
func (r *GormTaskRepository) GetStaleActive(ctx context.Context, before time.Time) ([]*task.Task, error) {
	var dtos []TaskDTO
	err := r.withItems(ctx).
		Where("status IN ? AND created_at < ?", activeStatuses(), before).
		Order("created_at ASC").
		Find(&dtos).
		Error
	if err != nil {
		return nil, err
	}

	tasks := make([]*task.Task, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

// withItems preloads the task lines in sequence order.
func (r *GormTaskRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	})
}
