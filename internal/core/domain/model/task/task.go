package task

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrTaskIsNotConstructed is returned when a Task instance was not created
	// through the NewTask or RestoreTask factory methods.
	ErrTaskIsNotConstructed = errors.New("Task must be created via NewTask or RestoreTask constructor")
)

// Task represents a unit of pick or pack work for exactly one order.
// It is the aggregate root over its ordered line items.
//
// Task follows these invariants:
//   - Item sequences are unique within the task
//   - Progress counters always equal a fresh count over the items
//   - The task becomes terminal exactly once, on the confirmation that
//     finishes the last item
//   - Weight and dimensions apply to pack tasks only
type Task struct {
	id      kernel.UUID
	orderID kernel.UUID

	// number is the human-readable identifier printed on paperwork,
	// e.g. "PICK-20260901-A3F2".
	number string

	kind   Kind
	status Status

	items []*Item

	totalItems     int
	completedItems int
	shortItems     int

	startedAt   *time.Time
	completedAt *time.Time

	packedWeight     *Weight
	packedDimensions *Dimensions

	isConstructed bool
}

// NewTask creates a pending task over the given lines with validation.
//
// The lines must be non-empty and carry unique sequences. Progress counters
// start from whatever the lines report, which is zero for freshly created
// lines.
//
// Example:
//
//	items := buildPickItems(allocations)
//	pickTask, err := task.NewTask(kernel.NewUUID(), orderID, number, task.KindPick, items)
//	if err != nil {
//	    return err
//	}
func NewTask(id, orderID kernel.UUID, number string, kind Kind, items []*Item) (*Task, error) {
	t := &Task{
		status:        StatusPending,
		isConstructed: true,
	}

	if err := errors.Join(
		t.setID(id),
		t.setOrderID(orderID),
		t.setNumber(number),
		t.setKind(kind),
		t.setItems(items),
	); err != nil {
		return nil, err
	}

	t.recomputeProgress()
	return t, nil
}

// RestoreTaskParams carries the full persisted state of a task.
type RestoreTaskParams struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	Number           string
	Kind             Kind
	Status           Status
	Items            []*Item
	StartedAt        *time.Time
	CompletedAt      *time.Time
	PackedWeight     *Weight
	PackedDimensions *Dimensions
}

// RestoreTask reconstructs a task from persistence.
// Progress counters are recomputed from the restored items rather than
// trusted from storage.
func RestoreTask(params RestoreTaskParams) (*Task, error) {
	t, err := NewTask(params.ID, params.OrderID, params.Number, params.Kind, params.Items)
	if err != nil {
		return nil, err
	}
	if err = params.Status.Validate(); err != nil {
		return nil, err
	}

	t.status = params.Status
	t.startedAt = params.StartedAt
	t.completedAt = params.CompletedAt
	t.packedWeight = params.PackedWeight
	t.packedDimensions = params.PackedDimensions
	t.recomputeProgress()
	return t, nil
}

// Validate ensures the Task instance was properly constructed.
func (t *Task) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTaskIsNotConstructed
	}
	return nil
}

// IsEqual compares two tasks by their unique identifiers.
func (t *Task) IsEqual(other *Task) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the task's unique identifier.
func (t *Task) ID() kernel.UUID { return t.id }

// OrderID returns the order this task belongs to.
func (t *Task) OrderID() kernel.UUID { return t.orderID }

// Number returns the human-readable task number.
func (t *Task) Number() string { return t.number }

// Kind returns whether this is pick or pack work.
func (t *Task) Kind() Kind { return t.kind }

// Status returns the current status of the task.
func (t *Task) Status() Status { return t.status }

// Items returns the ordered lines of the task.
func (t *Task) Items() []*Item { return t.items }

// TotalItems returns the number of lines.
func (t *Task) TotalItems() int { return t.totalItems }

// CompletedItems returns the number of finished lines (completed, short or
// skipped), recomputed from the lines on every mutation.
func (t *Task) CompletedItems() int { return t.completedItems }

// ShortItems returns the number of short-picked lines.
func (t *Task) ShortItems() int { return t.shortItems }

// StartedAt returns when the first line was confirmed, or nil.
func (t *Task) StartedAt() *time.Time { return t.startedAt }

// CompletedAt returns when the task finished, or nil.
func (t *Task) CompletedAt() *time.Time { return t.completedAt }

// PackedWeight returns the captured weight, or nil. Pack tasks only.
func (t *Task) PackedWeight() *Weight { return t.packedWeight }

// PackedDimensions returns the captured dimensions, or nil. Pack tasks only.
func (t *Task) PackedDimensions() *Dimensions { return t.packedDimensions }

// Item returns the line with the given ID, or nil if absent.
func (t *Task) Item(id kernel.UUID) *Item {
	for _, item := range t.items {
		if item.ID().IsEqual(id) {
			return item
		}
	}
	return nil
}

// PendingItems returns the lines that still need work, in sequence order.
func (t *Task) PendingItems() []*Item {
	pending := make([]*Item, 0, len(t.items))
	for _, item := range t.items {
		if !item.Status().IsFinished() {
			pending = append(pending, item)
		}
	}
	return pending
}

// AllItemsFinished reports whether every line reached a finished state.
func (t *Task) AllItemsFinished() bool {
	return t.completedItems == t.totalItems
}

// ConfirmPickItem confirms one pick line at the given quantity and refreshes
// the progress counters. A quantity below the requirement records a short
// pick; the operation still succeeds.
//
// The first confirmation moves the task to InProgress and stamps startedAt.
// The caller decides separately whether the task is now complete (see
// AllItemsFinished and Complete) because completion cascades outside the
// aggregate: order transition and bin creation.
func (t *Task) ConfirmPickItem(itemID kernel.UUID, quantity int, scanned bool, by string, at time.Time) (*Item, error) {
	if t.kind != KindPick {
		return nil, errs.NewInvalidStateError("Task", t.kind.String(), "confirm pick item")
	}
	item := t.Item(itemID)
	if item == nil {
		return nil, errs.NewObjectNotFoundError("taskItemId", itemID.String())
	}

	if err := item.ConfirmPick(quantity, scanned, by, at); err != nil {
		return nil, err
	}

	if err := t.start(at); err != nil {
		return nil, err
	}
	t.recomputeProgress()
	return item, nil
}

// VerifyPackItem finishes one pack line at its full quantity and refreshes
// the progress counters. An already-finished line is a no-op returning
// applied=false without refreshing anything, so a double-scan is never
// mistaken for progress.
func (t *Task) VerifyPackItem(itemID kernel.UUID, by string, at time.Time) (applied bool, err error) {
	if t.kind != KindPack {
		return false, errs.NewInvalidStateError("Task", t.kind.String(), "verify pack item")
	}
	item := t.Item(itemID)
	if item == nil {
		return false, errs.NewObjectNotFoundError("taskItemId", itemID.String())
	}

	if !item.VerifyPack(by, at) {
		return false, nil
	}

	if err = t.start(at); err != nil {
		return false, err
	}
	t.recomputeProgress()
	return true, nil
}

// Complete marks the task terminal. Only allowed once every line is finished.
func (t *Task) Complete(at time.Time) error {
	if !t.AllItemsFinished() {
		return errs.NewInvalidStateErrorWithCause("Task", t.status.String(), "complete",
			fmt.Errorf("%d of %d items pending", t.totalItems-t.completedItems, t.totalItems))
	}

	newStatus, err := t.status.Complete()
	if err != nil {
		return err
	}

	t.status = newStatus
	t.completedAt = &at
	return nil
}

// Cancel abandons the task.
func (t *Task) Cancel(at time.Time) error {
	newStatus, err := t.status.Cancel()
	if err != nil {
		return err
	}

	t.status = newStatus
	t.completedAt = &at
	return nil
}

// CapturePackedMeasurements stores the weight and optional dimensions
// captured at pack completion. Pack tasks only.
func (t *Task) CapturePackedMeasurements(weight Weight, dimensions *Dimensions) error {
	if t.kind != KindPack {
		return errs.NewInvalidStateError("Task", t.kind.String(), "capture packed measurements")
	}
	t.packedWeight = &weight
	t.packedDimensions = dimensions
	return nil
}

// start moves the task to InProgress on the first confirmation.
func (t *Task) start(at time.Time) error {
	newStatus, err := t.status.Start()
	if err != nil {
		return err
	}
	t.status = newStatus
	if t.startedAt == nil {
		t.startedAt = &at
	}
	return nil
}

// recomputeProgress recalculates the counters from a fresh pass over the
// lines. Counters are never incremented in place: two confirmations loaded
// in the same transaction both land on the correct totals.
func (t *Task) recomputeProgress() {
	completed, short := 0, 0
	for _, item := range t.items {
		if item.Status().IsFinished() {
			completed++
		}
		if item.IsShort() {
			short++
		}
	}
	t.totalItems = len(t.items)
	t.completedItems = completed
	t.shortItems = short
}

func (t *Task) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Task) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	t.orderID = orderID
	return nil
}

func (t *Task) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("number")
	}
	t.number = number
	return nil
}

func (t *Task) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	t.kind = kind
	return nil
}

func (t *Task) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if seen[item.Sequence()] {
			return errs.NewValueIsInvalidErrorWithCause("items are invalid",
				fmt.Errorf("sequence %d is duplicated", item.Sequence()))
		}
		seen[item.Sequence()] = true
	}

	t.items = items
	return nil
}
