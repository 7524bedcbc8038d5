package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/pickbin"
)

// CompleteBinCommandHandler closes out a bin once every line is verified and
// emits pickbin:completed after commit.
type CompleteBinCommandHandler struct {
	uowFactory BinUoWFactory
	recorder   EventRecorder
}

// NewCompleteBinCommandHandler creates a handler for bin completion.
func NewCompleteBinCommandHandler(uowFactory BinUoWFactory, recorder EventRecorder) CompleteBinCommandHandler {
	return CompleteBinCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the bin completion command.
// Returns an *UnverifiedItemsError naming the missing SKUs when lines remain
// unverified.
func (h CompleteBinCommandHandler) Handle(ctx context.Context, command CompleteBinCommand) (*pickbin.PickBin, error) {
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

	binRepo := uow.PickBinRepository()
	bin, err := binRepo.Get(ctx, command.BinID())
	if err != nil {
		return nil, err
	}

	if !bin.AllItemsVerified() {
		return nil, &UnverifiedItemsError{SKUs: bin.UnverifiedSKUs()}
	}

	now := time.Now().UTC()
	if err = bin.Complete(command.UserID(), now); err != nil {
		return nil, err
	}

	if err = binRepo.Update(ctx, bin); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.recorder.Record(ctx, newOperationEvents(bin.OrderID(), command.UserID(), now,
		fulfillmentevent.PickBinCompletedPayload{
			PickBinID:     bin.ID().String(),
			PickBinNumber: bin.Number(),
			PackedBy:      command.UserID(),
		},
	)...)

	return bin, nil
}
