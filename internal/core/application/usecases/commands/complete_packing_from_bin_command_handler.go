package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickbin"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"
)

// CompletePackingFromBinResult carries the packed-out bin and the completed
// pack task recorded for the audit trail.
type CompletePackingFromBinResult struct {
	Bin      *pickbin.PickBin
	PackTask *task.Task
}

// CompletePackingFromBinCommandHandler finishes an order straight from a
// verified bin. In one transaction it completes the bin, aligns the order
// lines and allocations with the bin contents, records a completed pack task
// for the audit trail and moves the order to PACKED. Emits pickbin:completed,
// packing:completed and order:packed after commit.
type CompletePackingFromBinCommandHandler struct {
	uowFactory UoWFactory
	recorder   EventRecorder
}

// NewCompletePackingFromBinCommandHandler creates a handler for bin-based
// pack completion.
func NewCompletePackingFromBinCommandHandler(
	uowFactory UoWFactory,
	recorder EventRecorder,
) CompletePackingFromBinCommandHandler {
	return CompletePackingFromBinCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the bin-based pack completion command.
// Returns ErrBinAlreadyPacked or ErrBinCancelled for terminal bins and an
// *UnverifiedItemsError when scans are still missing.
func (h CompletePackingFromBinCommandHandler) Handle(
	ctx context.Context,
	command CompletePackingFromBinCommand,
) (CompletePackingFromBinResult, error) {
	if err := command.Validate(); err != nil {
		return CompletePackingFromBinResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CompletePackingFromBinResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	bin, err := uow.PickBinRepository().Get(ctx, command.BinID())
	if err != nil {
		return CompletePackingFromBinResult{}, err
	}
	if !bin.OrderID().IsEqual(command.OrderID()) {
		return CompletePackingFromBinResult{}, errs.NewValueIsInvalidErrorWithCause("pickBinId is invalid",
			fmt.Errorf("bin %s belongs to another order", bin.ID()))
	}

	switch bin.Status() {
	case pickbin.StatusCompleted:
		return CompletePackingFromBinResult{}, ErrBinAlreadyPacked
	case pickbin.StatusCancelled:
		return CompletePackingFromBinResult{}, ErrBinCancelled
	}

	if !bin.AllItemsVerified() {
		return CompletePackingFromBinResult{}, &UnverifiedItemsError{SKUs: bin.UnverifiedSKUs()}
	}

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return CompletePackingFromBinResult{}, err
	}

	if err = uow.AllocationRepository().PromoteAllocatedToPicked(ctx, command.OrderID()); err != nil {
		return CompletePackingFromBinResult{}, err
	}
	if err = h.alignOrderLines(ctx, uow, ord, bin); err != nil {
		return CompletePackingFromBinResult{}, err
	}

	now := time.Now().UTC()
	if err = bin.Complete(command.UserID(), now); err != nil {
		return CompletePackingFromBinResult{}, err
	}
	if err = uow.PickBinRepository().Update(ctx, bin); err != nil {
		return CompletePackingFromBinResult{}, err
	}

	packTask, err := h.recordPackTask(ctx, uow, command, ord, bin, now)
	if err != nil {
		return CompletePackingFromBinResult{}, err
	}

	if err = uow.OrderRepository().UpdateStatus(ctx, command.OrderID(), order.StatusPacked); err != nil {
		return CompletePackingFromBinResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CompletePackingFromBinResult{}, err
	}

	completedPayload := fulfillmentevent.PackingCompletedPayload{
		TaskID:     packTask.ID().String(),
		Weight:     command.Weight().Value().String(),
		WeightUnit: command.Weight().Unit(),
		FromBin:    true,
		PickBinID:  bin.ID().String(),
	}
	if command.Dimensions() != nil {
		completedPayload.Dimensions = command.Dimensions().String()
	}

	h.recorder.Record(ctx, newOperationEvents(command.OrderID(), command.UserID(), now,
		fulfillmentevent.PickBinCompletedPayload{
			PickBinID:     bin.ID().String(),
			PickBinNumber: bin.Number(),
			PackedBy:      command.UserID(),
		},
		completedPayload,
		fulfillmentevent.OrderPackedPayload{
			OrderNumber: ord.Number,
		},
	)...)

	return CompletePackingFromBinResult{Bin: bin, PackTask: packTask}, nil
}

// alignOrderLines overwrites each order line's picked quantity with the
// verified quantity of the matching bin line.
func (h CompletePackingFromBinCommandHandler) alignOrderLines(
	ctx context.Context,
	uow UoW,
	ord *order.Order,
	bin *pickbin.PickBin,
) error {
	for _, binItem := range bin.Items() {
		ordItem := orderItemByVariant(ord, binItem.ProductVariantID())
		if ordItem == nil {
			continue
		}
		if err := uow.OrderRepository().SetItemPickedQty(ctx, ordItem.ID, binItem.VerifiedQty()); err != nil {
			return err
		}
	}
	return nil
}

// recordPackTask persists an already-completed pack task mirroring the bin
// contents, so the audit trail and downstream reports see the same shape for
// both pack flows.
func (h CompletePackingFromBinCommandHandler) recordPackTask(
	ctx context.Context,
	uow UoW,
	command CompletePackingFromBinCommand,
	ord *order.Order,
	bin *pickbin.PickBin,
	now time.Time,
) (*task.Task, error) {
	items := make([]*task.Item, 0, len(bin.Items()))
	for i, binItem := range bin.Items() {
		ordItem := orderItemByVariant(ord, binItem.ProductVariantID())
		if ordItem == nil {
			return nil, errs.NewObjectNotFoundError("productVariantId", binItem.ProductVariantID().String())
		}

		item, err := task.NewItem(task.NewItemParams{
			ID:               kernel.NewUUID(),
			OrderItemID:      ordItem.ID,
			SKU:              binItem.SKU(),
			ProductVariantID: binItem.ProductVariantID(),
			Description:      ordItem.Description,
			UPC:              binItem.UPC(),
			Barcode:          binItem.Barcode(),
			Sequence:         i + 1,
			QuantityRequired: binItem.Quantity(),
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

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

	for _, item := range packTask.Items() {
		if _, err = packTask.VerifyPackItem(item.ID(), command.UserID(), now); err != nil {
			return nil, err
		}
	}
	if err = packTask.CapturePackedMeasurements(command.Weight(), command.Dimensions()); err != nil {
		return nil, err
	}
	if err = packTask.Complete(now); err != nil {
		return nil, err
	}

	if err = uow.TaskRepository().Add(ctx, packTask); err != nil {
		return nil, err
	}
	return packTask, nil
}

// orderItemByVariant finds the order line selling the given product variant.
func orderItemByVariant(ord *order.Order, productVariantID kernel.UUID) *order.OrderItem {
	for i := range ord.Items {
		if ord.Items[i].ProductVariantID.IsEqual(productVariantID) {
			return &ord.Items[i]
		}
	}
	return nil
}
