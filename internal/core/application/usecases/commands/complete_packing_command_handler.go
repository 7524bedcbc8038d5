package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"
)

// CompletePackingCommandHandler finishes a pack task: captures measurements,
// completes the task, promotes lagging allocations and moves the order to
// PACKED, all in one transaction. Emits packing:completed and order:packed
// after commit.
type CompletePackingCommandHandler struct {
	uowFactory UoWFactory
	recorder   EventRecorder
}

// NewCompletePackingCommandHandler creates a handler for pack completion.
func NewCompletePackingCommandHandler(uowFactory UoWFactory, recorder EventRecorder) CompletePackingCommandHandler {
	return CompletePackingCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the pack completion command.
// Returns a *PendingItemsError counting the unverified lines when the task is
// not fully verified yet.
func (h CompletePackingCommandHandler) Handle(
	ctx context.Context,
	command CompletePackingCommand,
) (*task.Task, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	taskRepo := uow.TaskRepository()
	packTask, err := taskRepo.Get(ctx, command.TaskID())
	if err != nil {
		return nil, err
	}
	if packTask.Kind() != task.KindPack {
		return nil, errs.NewInvalidStateError("Task", packTask.Kind().String(), "complete packing")
	}

	if pending := len(packTask.PendingItems()); pending > 0 {
		return nil, &PendingItemsError{Remaining: pending}
	}

	now := time.Now().UTC()
	if err = packTask.CapturePackedMeasurements(command.Weight(), command.Dimensions()); err != nil {
		return nil, err
	}
	if err = packTask.Complete(now); err != nil {
		return nil, err
	}
	if err = taskRepo.Update(ctx, packTask); err != nil {
		return nil, err
	}

	if err = uow.AllocationRepository().PromoteAllocatedToPicked(ctx, packTask.OrderID()); err != nil {
		return nil, err
	}

	ord, err := uow.OrderRepository().Get(ctx, packTask.OrderID())
	if err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().UpdateStatus(ctx, packTask.OrderID(), order.StatusPacked); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	completedPayload := fulfillmentevent.PackingCompletedPayload{
		TaskID:     packTask.ID().String(),
		Weight:     command.Weight().Value().String(),
		WeightUnit: command.Weight().Unit(),
		FromBin:    false,
	}
	if command.Dimensions() != nil {
		completedPayload.Dimensions = command.Dimensions().String()
	}

	h.recorder.Record(ctx, newOperationEvents(packTask.OrderID(), command.UserID(), now,
		completedPayload,
		fulfillmentevent.OrderPackedPayload{
			OrderNumber: ord.Number,
		},
	)...)

	return packTask, nil
}
