package commands

import (
	"context"
	"errors"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"
)

// GeneratePickListCommandHandler orchestrates pick-list generation.
// Reads the order's ALLOCATED inventory, orders it along the pick path and
// creates the pick task in the same transaction that moves the order to
// PICKING. Emits order:processing and picklist:generated after commit.
type GeneratePickListCommandHandler struct {
	uowFactory UoWFactory
	recorder   EventRecorder
}

// NewGeneratePickListCommandHandler creates a handler for pick-list generation.
func NewGeneratePickListCommandHandler(uowFactory UoWFactory, recorder EventRecorder) GeneratePickListCommandHandler {
	return GeneratePickListCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the pick-list generation command.
// Returns ErrNoAllocations when the order has no ALLOCATED inventory, an
// errs.ObjectIsDuplicateError when an active pick task already exists, and an
// errs.InvalidStateError when the order status does not allow picking.
func (h GeneratePickListCommandHandler) Handle(
	ctx context.Context,
	command GeneratePickListCommand,
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

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}
	if !ord.Status.CanGeneratePickList() {
		return nil, errs.NewInvalidStateError("Order", ord.Status.String(), "generate pick list")
	}

	taskRepo := uow.TaskRepository()
	_, err = taskRepo.GetActiveByOrderAndKind(ctx, command.OrderID(), task.KindPick)
	if err == nil {
		return nil, errs.NewObjectIsDuplicateError("PickTask", command.OrderID().String())
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	allocations, err := uow.AllocationRepository().GetAllocatedByOrder(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}
	if len(allocations) == 0 {
		return nil, ErrNoAllocations
	}

	sort.SliceStable(allocations, func(i, j int) bool {
		return allocations[i].EffectivePickSequence() < allocations[j].EffectivePickSequence()
	})

	items, err := buildPickItems(ord, allocations)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pickTask, err := task.NewTask(
		kernel.NewUUID(),
		command.OrderID(),
		task.GenerateNumber(task.KindPick, now),
		task.KindPick,
		items,
	)
	if err != nil {
		return nil, err
	}

	if err = taskRepo.Add(ctx, pickTask); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().UpdateStatus(ctx, command.OrderID(), order.StatusPicking); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.recorder.Record(ctx, newOperationEvents(command.OrderID(), command.UserID(), now,
		fulfillmentevent.OrderProcessingPayload{
			OrderNumber: ord.Number,
			Status:      order.StatusPicking.String(),
		},
		fulfillmentevent.PicklistGeneratedPayload{
			TaskID:     pickTask.ID().String(),
			TaskNumber: pickTask.Number(),
			TotalItems: pickTask.TotalItems(),
		},
	)...)

	return pickTask, nil
}

// buildPickItems turns path-ordered allocations into task lines, pulling the
// scannable codes and description from the matching order line.
func buildPickItems(ord *order.Order, allocations []*order.Allocation) ([]*task.Item, error) {
	items := make([]*task.Item, 0, len(allocations))
	for i, alloc := range allocations {
		params := task.NewItemParams{
			ID:               kernel.NewUUID(),
			OrderItemID:      alloc.OrderItemID,
			AllocationID:     &alloc.ID,
			SKU:              alloc.SKU,
			ProductVariantID: alloc.ProductVariantID,
			LocationID:       &alloc.LocationID,
			LocationName:     alloc.LocationName,
			LocationBarcode:  alloc.LocationBarcode,
			Sequence:         i + 1,
			QuantityRequired: alloc.Quantity,
		}
		if ordItem := ord.Item(alloc.OrderItemID); ordItem != nil {
			params.Description = ordItem.Description
			params.UPC = ordItem.UPC
			params.Barcode = ordItem.Barcode
		}

		item, err := task.NewItem(params)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
