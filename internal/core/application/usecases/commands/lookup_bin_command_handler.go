package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickbin"
)

// LookupBinResult carries everything the pack station renders after a tote
// scan: the bin contents and the order they stage. Claimed reports whether
// this scan performed the Staged->Packing transition.
type LookupBinResult struct {
	Bin     *pickbin.PickBin
	Order   *order.Order
	Claimed bool
}

// LookupBinCommandHandler resolves a tote barcode and performs the
// first-touch claim. Two stations scanning the same tote race on the claim;
// the conditional status update makes exactly one of them the claimer, and
// both still get the bin back.
type LookupBinCommandHandler struct {
	uowFactory UoWFactory
}

// NewLookupBinCommandHandler creates a handler for tote lookups.
func NewLookupBinCommandHandler(uowFactory UoWFactory) LookupBinCommandHandler {
	return LookupBinCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the lookup command.
// Returns errs.ErrObjectNotFound for an unknown barcode, ErrBinAlreadyPacked
// for a completed bin and ErrBinCancelled for a cancelled one.
func (h LookupBinCommandHandler) Handle(ctx context.Context, command LookupBinCommand) (LookupBinResult, error) {
	if err := command.Validate(); err != nil {
		return LookupBinResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return LookupBinResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	binRepo := uow.PickBinRepository()
	bin, err := binRepo.GetByBarcode(ctx, command.Barcode())
	if err != nil {
		return LookupBinResult{}, err
	}

	switch bin.Status() {
	case pickbin.StatusCompleted:
		return LookupBinResult{}, ErrBinAlreadyPacked
	case pickbin.StatusCancelled:
		return LookupBinResult{}, ErrBinCancelled
	}

	claimed := false
	if bin.Status() == pickbin.StatusStaged {
		claimed, err = binRepo.ClaimForPacking(ctx, bin.ID())
		if err != nil {
			return LookupBinResult{}, err
		}
		// The aggregate follows the row either way: losing the race still
		// means the bin is PACKING now.
		if _, err = bin.Claim(); err != nil {
			return LookupBinResult{}, err
		}
	}

	ord, err := uow.OrderRepository().Get(ctx, bin.OrderID())
	if err != nil {
		return LookupBinResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return LookupBinResult{}, err
	}

	return LookupBinResult{
		Bin:     bin,
		Order:   ord,
		Claimed: claimed,
	}, nil
}
