package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/task"
)

// VerifyPackItemResult reports the effect of one pack verification.
// Applied is false for a double-scan of an already-verified line.
type VerifyPackItemResult struct {
	Applied     bool
	AllVerified bool
	Task        *task.Task
	Item        *task.Item
}

// VerifyPackItemCommandHandler verifies one pack line inside a task
// transaction and emits packing:item_verified when the scan changed anything.
// Completion stays a separate, explicit command because it also captures the
// package measurements.
type VerifyPackItemCommandHandler struct {
	uowFactory TaskUoWFactory
	recorder   EventRecorder
}

// NewVerifyPackItemCommandHandler creates a handler for pack verification.
func NewVerifyPackItemCommandHandler(uowFactory TaskUoWFactory, recorder EventRecorder) VerifyPackItemCommandHandler {
	return VerifyPackItemCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the pack verification command.
func (h VerifyPackItemCommandHandler) Handle(
	ctx context.Context,
	command VerifyPackItemCommand,
) (VerifyPackItemResult, error) {
	if err := command.Validate(); err != nil {
		return VerifyPackItemResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return VerifyPackItemResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	taskRepo := uow.TaskRepository()
	packTask, err := taskRepo.GetByItemID(ctx, command.TaskItemID())
	if err != nil {
		return VerifyPackItemResult{}, err
	}

	now := time.Now().UTC()
	applied, err := packTask.VerifyPackItem(command.TaskItemID(), command.UserID(), now)
	if err != nil {
		return VerifyPackItemResult{}, err
	}

	// A double-scan of an already-verified line reports no progress, even
	// when the rest of the task happens to be done.
	item := packTask.Item(command.TaskItemID())
	result := VerifyPackItemResult{
		Applied: applied,
		Task:    packTask,
		Item:    item,
	}
	if !applied {
		return result, nil
	}
	result.AllVerified = packTask.AllItemsFinished()

	if err = taskRepo.Update(ctx, packTask); err != nil {
		return VerifyPackItemResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return VerifyPackItemResult{}, err
	}

	h.recorder.Record(ctx, newOperationEvents(packTask.OrderID(), command.UserID(), now,
		fulfillmentevent.PackingItemVerifiedPayload{
			TaskID:      packTask.ID().String(),
			TaskItemID:  item.ID().String(),
			SKU:         item.SKU(),
			AllVerified: result.AllVerified,
		},
	)...)

	return result, nil
}
