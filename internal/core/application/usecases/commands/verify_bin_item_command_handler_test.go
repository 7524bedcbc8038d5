package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/pickbin"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestBin builds a staged bin with one line per (sku, quantity) pair.
func newTestBin(t *testing.T, quantities map[string]int) *pickbin.PickBin {
	t.Helper()

	items := make([]*pickbin.Item, 0, len(quantities))
	for sku, qty := range quantities {
		item, err := pickbin.NewItem(pickbin.NewItemParams{
			ID:               kernel.NewUUID(),
			SKU:              sku,
			ProductVariantID: kernel.NewUUID(),
			UPC:              "0" + sku,
			Barcode:          "BC-" + sku,
			Quantity:         qty,
		})
		require.NoError(t, err)
		items = append(items, item)
	}

	bin, err := pickbin.NewPickBin(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		"BIN-20260901-TEST", "BIN-20260901-TESTCODE",
		items, "worker-1", time.Now().UTC(),
	)
	require.NoError(t, err)
	return bin
}

func TestVerifyBinItemCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	bin := newTestBin(t, map[string]int{"SKU-A": 2})

	cmd, err := commands.NewVerifyBinItemCommand(bin.ID(), "sku-a", nil, "packer-1")
	require.NoError(t, err)

	mockBinRepo := new(MockPickBinRepository)
	mockUoW := new(MockBinUoW)
	mockFactory := new(MockBinUoWFactory)
	mockStore := new(MockEventStore)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("PickBinRepository").Return(mockBinRepo)
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockBinRepo.On("Get", ctx, bin.ID()).Return(bin, nil).Once()
	mockBinRepo.On("Update", ctx, bin).Return(nil).Once()
	mockStore.On("Append", ctx, mock.Anything).Return(nil).Once()

	handler := commands.NewVerifyBinItemCommandHandler(mockFactory, testRecorder(mockStore))

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.False(t, result.AllVerified)
	assert.Equal(t, 1, result.Item.VerifiedQty())

	mockUoW.AssertExpectations(t)
	mockBinRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestVerifyBinItemCommandHandler_Handle_QuantityClampedToRemaining(t *testing.T) {
	// Arrange
	ctx := t.Context()
	bin := newTestBin(t, map[string]int{"SKU-A": 2})

	cmd, err := commands.NewVerifyBinItemCommand(bin.ID(), "SKU-A", intPtr(5), "packer-1")
	require.NoError(t, err)

	mockBinRepo := new(MockPickBinRepository)
	mockUoW := new(MockBinUoW)
	mockFactory := new(MockBinUoWFactory)
	mockStore := new(MockEventStore)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("PickBinRepository").Return(mockBinRepo)
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockBinRepo.On("Get", ctx, bin.ID()).Return(bin, nil).Once()
	mockBinRepo.On("Update", ctx, bin).Return(nil).Once()
	mockStore.On("Append", ctx, mock.Anything).Return(nil).Once()

	handler := commands.NewVerifyBinItemCommandHandler(mockFactory, testRecorder(mockStore))

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.True(t, result.AllVerified)
	assert.Equal(t, 2, result.Item.VerifiedQty())
}

func TestVerifyBinItemCommandHandler_Handle_DoubleScanIsNoOp(t *testing.T) {
	// Arrange
	ctx := t.Context()
	bin := newTestBin(t, map[string]int{"SKU-A": 1})

	// Verify the only line up front.
	_, _, err := bin.VerifyItem("SKU-A", 1, time.Now().UTC())
	require.NoError(t, err)

	cmd, err := commands.NewVerifyBinItemCommand(bin.ID(), "SKU-A", nil, "packer-1")
	require.NoError(t, err)

	mockBinRepo := new(MockPickBinRepository)
	mockUoW := new(MockBinUoW)
	mockFactory := new(MockBinUoWFactory)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("PickBinRepository").Return(mockBinRepo)
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockBinRepo.On("Get", ctx, bin.ID()).Return(bin, nil).Once()

	handler := commands.NewVerifyBinItemCommandHandler(mockFactory, testRecorder(new(MockEventStore)))

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.True(t, result.AllVerified)
	mockBinRepo.AssertNotCalled(t, "Update", ctx, bin)
	mockUoW.AssertNotCalled(t, "Commit", ctx)
}

func TestVerifyBinItemCommandHandler_Handle_UnknownCode(t *testing.T) {
	// Arrange
	ctx := t.Context()
	bin := newTestBin(t, map[string]int{"SKU-A": 1})

	cmd, err := commands.NewVerifyBinItemCommand(bin.ID(), "SKU-NOPE", nil, "packer-1")
	require.NoError(t, err)

	mockBinRepo := new(MockPickBinRepository)
	mockUoW := new(MockBinUoW)
	mockFactory := new(MockBinUoWFactory)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("PickBinRepository").Return(mockBinRepo)
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockBinRepo.On("Get", ctx, bin.ID()).Return(bin, nil).Once()

	handler := commands.NewVerifyBinItemCommandHandler(mockFactory, testRecorder(new(MockEventStore)))

	// Act
	_, err = handler.Handle(ctx, cmd)

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
