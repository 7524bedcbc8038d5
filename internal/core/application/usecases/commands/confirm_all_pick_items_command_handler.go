package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/pickbin"
	"fulfillment/internal/core/domain/model/task"
)

// ConfirmAllPickItemsResult reports how far the bulk confirmation got.
type ConfirmAllPickItemsResult struct {
	Confirmed     int
	TaskCompleted bool
	Bin           *pickbin.PickBin
}

// ConfirmAllPickItemsCommandHandler resolves the order's active pick task and
// confirms its pending lines one by one, each in its own transaction, reusing
// the single-line handler so every cascade and event fires exactly as it
// would for manual confirmations. The loop stops at the first failure; lines
// confirmed before it stay confirmed.
type ConfirmAllPickItemsCommandHandler struct {
	uowFactory  TaskUoWFactory
	confirmItem ConfirmPickItemCommandHandler
}

// NewConfirmAllPickItemsCommandHandler creates a handler for bulk pick
// confirmation.
func NewConfirmAllPickItemsCommandHandler(
	uowFactory TaskUoWFactory,
	confirmItem ConfirmPickItemCommandHandler,
) ConfirmAllPickItemsCommandHandler {
	return ConfirmAllPickItemsCommandHandler{
		uowFactory:  uowFactory,
		confirmItem: confirmItem,
	}
}

// Handle processes the bulk confirmation command.
// On partial failure the returned result still counts the lines that were
// confirmed before the error.
func (h ConfirmAllPickItemsCommandHandler) Handle(
	ctx context.Context,
	command ConfirmAllPickItemsCommand,
) (ConfirmAllPickItemsResult, error) {
	if err := command.Validate(); err != nil {
		return ConfirmAllPickItemsResult{}, err
	}

	pending, err := h.pendingItemIDs(ctx, command.OrderID())
	if err != nil {
		return ConfirmAllPickItemsResult{}, err
	}

	result := ConfirmAllPickItemsResult{}
	for _, itemID := range pending {
		itemCmd, err := NewConfirmPickItemCommand(itemID, nil, false, command.UserID())
		if err != nil {
			return result, err
		}

		itemResult, err := h.confirmItem.Handle(ctx, itemCmd)
		if err != nil {
			return result, err
		}

		result.Confirmed++
		result.TaskCompleted = itemResult.TaskCompleted
		if itemResult.Bin != nil {
			result.Bin = itemResult.Bin
		}
	}

	return result, nil
}

// pendingItemIDs snapshots the unfinished lines of the order's active pick
// task in sequence order.
func (h ConfirmAllPickItemsCommandHandler) pendingItemIDs(
	ctx context.Context,
	orderID kernel.UUID,
) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pickTask, err := uow.TaskRepository().GetActiveByOrderAndKind(ctx, orderID, task.KindPick)
	if err != nil {
		return nil, err
	}

	pending := pickTask.PendingItems()
	ids := make([]kernel.UUID, 0, len(pending))
	for _, item := range pending {
		ids = append(ids, item.ID())
	}
	return ids, nil
}
