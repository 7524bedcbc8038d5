package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"
)

// GeneratePackListCommandHandler creates a pack task mirroring the completed
// pick task's picked lines and moves the order to PACKING. Short lines are
// carried at their picked quantity; lines picked at zero are dropped.
type GeneratePackListCommandHandler struct {
	uowFactory UoWFactory
	recorder   EventRecorder
}

// NewGeneratePackListCommandHandler creates a handler for pack-list generation.
func NewGeneratePackListCommandHandler(uowFactory UoWFactory, recorder EventRecorder) GeneratePackListCommandHandler {
	return GeneratePackListCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the pack-list generation command.
// Returns ErrNoPickedItems when no completed pick task with picked units
// exists, an errs.ObjectIsDuplicateError when an active pack task already
// exists, and an errs.InvalidStateError when the order is not PICKED.
func (h GeneratePackListCommandHandler) Handle(
	ctx context.Context,
	command GeneratePackListCommand,
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
	if !ord.Status.CanGeneratePackList() {
		return nil, errs.NewInvalidStateError("Order", ord.Status.String(), "generate pack list")
	}

	taskRepo := uow.TaskRepository()
	_, err = taskRepo.GetActiveByOrderAndKind(ctx, command.OrderID(), task.KindPack)
	if err == nil {
		return nil, errs.NewObjectIsDuplicateError("PackTask", command.OrderID().String())
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	pickTask, err := taskRepo.GetCompletedByOrderAndKind(ctx, command.OrderID(), task.KindPick)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, ErrNoPickedItems
	}
	if err != nil {
		return nil, err
	}

	items, err := buildPackItems(pickTask)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoPickedItems
	}

	now := time.Now().UTC()
	packTask, err := task.NewTask(
		kernel.NewUUID(),
		command.OrderID(),
		task.GenerateNumber(task.KindPack, now),
		task.KindPack,
		items,
	)
	if err != nil {
		return nil, err
	}

	if err = taskRepo.Add(ctx, packTask); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().UpdateStatus(ctx, command.OrderID(), order.StatusPacking); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.recorder.Record(ctx, newOperationEvents(command.OrderID(), command.UserID(), now,
		fulfillmentevent.PackingStartedPayload{
			TaskID:     packTask.ID().String(),
			TaskNumber: packTask.Number(),
			TotalItems: packTask.TotalItems(),
		},
	)...)

	return packTask, nil
}

// buildPackItems mirrors the pick task's picked lines as fresh pack lines.
func buildPackItems(pickTask *task.Task) ([]*task.Item, error) {
	items := make([]*task.Item, 0, len(pickTask.Items()))
	sequence := 0
	for _, picked := range pickTask.Items() {
		if picked.QuantityCompleted() == 0 {
			continue
		}

		sequence++
		item, err := task.NewItem(task.NewItemParams{
			ID:               kernel.NewUUID(),
			OrderItemID:      picked.OrderItemID(),
			SKU:              picked.SKU(),
			ProductVariantID: picked.ProductVariantID(),
			Description:      picked.Description(),
			UPC:              picked.UPC(),
			Barcode:          picked.Barcode(),
			Sequence:         sequence,
			QuantityRequired: picked.QuantityCompleted(),
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
