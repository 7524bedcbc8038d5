package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
)

// TaskRepository defines the persistence contract for task aggregates.
// Tasks are always loaded with their items so progress recomputation inside
// a transaction sees a fresh count.
type TaskRepository interface {
	// Add persists a new task aggregate with its items.
	Add(ctx context.Context, aggregate *task.Task) error

	// Update persists changes to an existing task aggregate and its items.
	Update(ctx context.Context, aggregate *task.Task) error

	// Get retrieves a task aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*task.Task, error)

	// GetByItemID retrieves the task aggregate owning the given item.
	// Used by item-confirmation operations that are addressed by item.
	GetByItemID(ctx context.Context, itemID kernel.UUID) (*task.Task, error)

	// GetActiveByOrderAndKind retrieves the non-terminal task of the given
	// kind for an order. Returns errs.ErrObjectNotFound when none exists;
	// at most one can exist (single-active-task guard).
	GetActiveByOrderAndKind(ctx context.Context, orderID kernel.UUID, kind task.Kind) (*task.Task, error)

	// GetCompletedByOrderAndKind retrieves the most recently completed task
	// of the given kind for an order. Used by pack-list generation to mirror
	// the picked lines.
	GetCompletedByOrderAndKind(ctx context.Context, orderID kernel.UUID, kind task.Kind) (*task.Task, error)

	// GetStaleActive retrieves non-terminal tasks created before the cutoff.
	// Used by the cleanup job to cancel abandoned work.
	GetStaleActive(ctx context.Context, before time.Time) ([]*task.Task, error)
}
