package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickbin"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"
)

// ConfirmPickItemResult reports what a single confirmation changed.
// Bin is non-nil only when this confirmation finished the task and staged
// picked units into a new bin.
type ConfirmPickItemResult struct {
	Task          *task.Task
	Item          *task.Item
	TaskCompleted bool
	Bin           *pickbin.PickBin
}

// ConfirmPickItemCommandHandler orchestrates the confirmation of one pick
// line and its cascades: allocation and inventory status, the order line's
// picked quantity, and, on the confirmation that finishes the task, task
// completion, bin staging and the order's move to PICKED. Everything runs in
// one transaction; events are recorded after commit.
type ConfirmPickItemCommandHandler struct {
	uowFactory UoWFactory
	recorder   EventRecorder
}

// NewConfirmPickItemCommandHandler creates a handler for pick confirmations.
func NewConfirmPickItemCommandHandler(uowFactory UoWFactory, recorder EventRecorder) ConfirmPickItemCommandHandler {
	return ConfirmPickItemCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the pick confirmation command.
// A short pick succeeds and is reported through the result's item; an
// already-finished line fails with an errs.InvalidStateError.
func (h ConfirmPickItemCommandHandler) Handle(
	ctx context.Context,
	command ConfirmPickItemCommand,
) (ConfirmPickItemResult, error) {
	if err := command.Validate(); err != nil {
		return ConfirmPickItemResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ConfirmPickItemResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	taskRepo := uow.TaskRepository()
	pickTask, err := taskRepo.GetByItemID(ctx, command.TaskItemID())
	if err != nil {
		return ConfirmPickItemResult{}, err
	}

	line := pickTask.Item(command.TaskItemID())
	if line == nil {
		return ConfirmPickItemResult{}, errs.NewObjectNotFoundError("taskItemId", command.TaskItemID().String())
	}

	quantity := line.QuantityRequired()
	if command.Quantity() != nil {
		quantity = *command.Quantity()
	}

	now := time.Now().UTC()
	item, err := pickTask.ConfirmPickItem(command.TaskItemID(), quantity, command.Scanned(), command.UserID(), now)
	if err != nil {
		return ConfirmPickItemResult{}, err
	}

	if err = h.applyPickCascades(ctx, uow, item); err != nil {
		return ConfirmPickItemResult{}, err
	}

	result := ConfirmPickItemResult{
		Task:          pickTask,
		Item:          item,
		TaskCompleted: pickTask.AllItemsFinished(),
	}

	var ord *order.Order
	if result.TaskCompleted {
		if err = pickTask.Complete(now); err != nil {
			return ConfirmPickItemResult{}, err
		}

		ord, err = uow.OrderRepository().Get(ctx, pickTask.OrderID())
		if err != nil {
			return ConfirmPickItemResult{}, err
		}

		result.Bin, err = h.stageBin(ctx, uow, pickTask, command.UserID(), now)
		if err != nil {
			return ConfirmPickItemResult{}, err
		}

		if err = uow.OrderRepository().UpdateStatus(ctx, pickTask.OrderID(), order.StatusPicked); err != nil {
			return ConfirmPickItemResult{}, err
		}
	}

	if err = taskRepo.Update(ctx, pickTask); err != nil {
		return ConfirmPickItemResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ConfirmPickItemResult{}, err
	}

	h.recorder.Record(ctx, h.confirmationEvents(command, pickTask, item, ord, result.Bin, now)...)

	return result, nil
}

// applyPickCascades pushes the confirmed quantity out to the allocation,
// inventory and order stores.
func (h ConfirmPickItemCommandHandler) applyPickCascades(ctx context.Context, uow UoW, item *task.Item) error {
	if item.AllocationID() != nil {
		status := order.AllocationPicked
		if item.IsShort() {
			status = order.AllocationPartiallyPicked
		}
		if err := uow.AllocationRepository().UpdateStatus(ctx, *item.AllocationID(), status); err != nil {
			return err
		}

		if err := h.markInventoryPicked(ctx, uow, *item.AllocationID(), item.QuantityCompleted()); err != nil {
			return err
		}
	}

	return uow.OrderRepository().IncrementItemPickedQty(ctx, item.OrderItemID(), item.QuantityCompleted())
}

// markInventoryPicked flips the allocation's inventory unit to PICKED when the
// confirmed quantity exhausts it.
func (h ConfirmPickItemCommandHandler) markInventoryPicked(
	ctx context.Context,
	uow UoW,
	allocationID kernel.UUID,
	quantityCompleted int,
) error {
	alloc, err := uow.AllocationRepository().Get(ctx, allocationID)
	if err != nil {
		return err
	}
	if alloc.InventoryUnitID == nil {
		return nil
	}

	unit, err := uow.InventoryRepository().Get(ctx, *alloc.InventoryUnitID)
	if err != nil {
		return err
	}
	if unit.Quantity-quantityCompleted > 0 {
		return nil
	}

	return uow.InventoryRepository().MarkPicked(ctx, unit.ID)
}

// stageBin aggregates the task's picked units by product variant into a new
// staged bin. Returns nil without error when nothing was picked, which can
// happen when every line came up short at zero.
func (h ConfirmPickItemCommandHandler) stageBin(
	ctx context.Context,
	uow UoW,
	pickTask *task.Task,
	pickedBy string,
	now time.Time,
) (*pickbin.PickBin, error) {
	type line struct {
		params   pickbin.NewItemParams
		quantity int
	}

	variants := make([]kernel.UUID, 0, len(pickTask.Items()))
	byVariant := make(map[kernel.UUID]*line, len(pickTask.Items()))
	for _, item := range pickTask.Items() {
		if item.QuantityCompleted() == 0 {
			continue
		}
		if existing, ok := byVariant[item.ProductVariantID()]; ok {
			existing.quantity += item.QuantityCompleted()
			continue
		}
		byVariant[item.ProductVariantID()] = &line{
			params: pickbin.NewItemParams{
				ID:               kernel.NewUUID(),
				SKU:              item.SKU(),
				ProductVariantID: item.ProductVariantID(),
				UPC:              item.UPC(),
				Barcode:          item.Barcode(),
			},
			quantity: item.QuantityCompleted(),
		}
		variants = append(variants, item.ProductVariantID())
	}
	if len(variants) == 0 {
		return nil, nil
	}

	items := make([]*pickbin.Item, 0, len(variants))
	for _, variant := range variants {
		l := byVariant[variant]
		l.params.Quantity = l.quantity
		item, err := pickbin.NewItem(l.params)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	bin, err := pickbin.NewPickBin(
		kernel.NewUUID(),
		pickTask.OrderID(),
		pickTask.ID(),
		pickbin.GenerateNumber(now),
		pickbin.GenerateBarcode(now),
		items,
		pickedBy,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.PickBinRepository().Add(ctx, bin); err != nil {
		return nil, err
	}
	return bin, nil
}

func (h ConfirmPickItemCommandHandler) confirmationEvents(
	command ConfirmPickItemCommand,
	pickTask *task.Task,
	item *task.Item,
	ord *order.Order,
	bin *pickbin.PickBin,
	now time.Time,
) []fulfillmentevent.Event {
	payloads := []fulfillmentevent.Payload{
		fulfillmentevent.PicklistItemPickedPayload{
			TaskID:            pickTask.ID().String(),
			TaskItemID:        item.ID().String(),
			SKU:               item.SKU(),
			QuantityRequired:  item.QuantityRequired(),
			QuantityCompleted: item.QuantityCompleted(),
			Short:             item.IsShort(),
			CompletedItems:    pickTask.CompletedItems(),
			TotalItems:        pickTask.TotalItems(),
		},
	}

	if pickTask.Status() == task.StatusCompleted {
		completed := fulfillmentevent.PicklistCompletedPayload{
			TaskID:     pickTask.ID().String(),
			TaskNumber: pickTask.Number(),
			ShortItems: pickTask.ShortItems(),
		}
		picked := fulfillmentevent.OrderPickedPayload{}
		if ord != nil {
			picked.OrderNumber = ord.Number
		}
		if bin != nil {
			completed.PickBinID = bin.ID().String()
			completed.PickBinNumber = bin.Number()
			completed.PickBinBarcode = bin.Barcode()
			picked.PickBinID = bin.ID().String()
		}
		payloads = append(payloads, completed, picked)
	}

	return newOperationEvents(pickTask.OrderID(), command.UserID(), now, payloads...)
}
