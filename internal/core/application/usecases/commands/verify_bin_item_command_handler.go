package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/pickbin"
)

// VerifyBinItemResult reports the effect of one pack-station scan.
// Verified is false for a double-scan of an already-verified line.
type VerifyBinItemResult struct {
	Verified    bool
	AllVerified bool
	Item        *pickbin.Item
}

// VerifyBinItemCommandHandler counts a scan toward a bin line inside a bin
// transaction and emits pickbin:item_verified when the scan changed anything.
type VerifyBinItemCommandHandler struct {
	uowFactory BinUoWFactory
	recorder   EventRecorder
}

// NewVerifyBinItemCommandHandler creates a handler for bin verification scans.
func NewVerifyBinItemCommandHandler(uowFactory BinUoWFactory, recorder EventRecorder) VerifyBinItemCommandHandler {
	return VerifyBinItemCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the verification scan.
// Returns an errs.ObjectNotFoundError when the code matches no line of the
// bin and an errs.InvalidStateError when the bin is terminal.
func (h VerifyBinItemCommandHandler) Handle(
	ctx context.Context,
	command VerifyBinItemCommand,
) (VerifyBinItemResult, error) {
	if err := command.Validate(); err != nil {
		return VerifyBinItemResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return VerifyBinItemResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	binRepo := uow.PickBinRepository()
	bin, err := binRepo.Get(ctx, command.BinID())
	if err != nil {
		return VerifyBinItemResult{}, err
	}

	quantity := 1
	if command.Quantity() != nil {
		quantity = *command.Quantity()
	}

	now := time.Now().UTC()
	verified, allVerified, err := bin.VerifyItem(command.Code(), quantity, now)
	if err != nil {
		return VerifyBinItemResult{}, err
	}

	item := bin.MatchItem(command.Code())
	result := VerifyBinItemResult{
		Verified:    verified,
		AllVerified: allVerified,
		Item:        item,
	}
	if !verified {
		return result, nil
	}

	if err = binRepo.Update(ctx, bin); err != nil {
		return VerifyBinItemResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return VerifyBinItemResult{}, err
	}

	h.recorder.Record(ctx, newOperationEvents(bin.OrderID(), command.UserID(), now,
		fulfillmentevent.PickBinItemVerifiedPayload{
			PickBinID:   bin.ID().String(),
			SKU:         item.SKU(),
			VerifiedQty: item.VerifiedQty(),
			Quantity:    item.Quantity(),
			AllVerified: allVerified,
		},
	)...)

	return result, nil
}
