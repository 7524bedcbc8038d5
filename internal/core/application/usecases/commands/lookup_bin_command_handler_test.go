package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickbin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupBinCommandHandler_Handle_FirstScanClaims(t *testing.T) {
	// Arrange
	ctx := t.Context()
	bin := newTestBin(t, map[string]int{"SKU-A": 1})
	ord := newTestOrder(order.StatusPicked, "SKU-A")

	cmd, err := commands.NewLookupBinCommand(bin.Barcode(), "packer-1")
	require.NoError(t, err)

	mockBinRepo := new(MockPickBinRepository)
	mockOrderRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("PickBinRepository").Return(mockBinRepo)
	mockUoW.On("OrderRepository").Return(mockOrderRepo)
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockBinRepo.On("GetByBarcode", ctx, bin.Barcode()).Return(bin, nil).Once()
	mockBinRepo.On("ClaimForPacking", ctx, bin.ID()).Return(true, nil).Once()
	mockOrderRepo.On("Get", ctx, bin.OrderID()).Return(ord, nil).Once()

	handler := commands.NewLookupBinCommandHandler(mockFactory)

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Claimed)
	assert.Equal(t, pickbin.StatusPacking, result.Bin.Status())
	assert.Equal(t, ord, result.Order)

	mockUoW.AssertExpectations(t)
	mockBinRepo.AssertExpectations(t)
}

func TestLookupBinCommandHandler_Handle_LostClaimRace(t *testing.T) {
	// Arrange
	ctx := t.Context()
	bin := newTestBin(t, map[string]int{"SKU-A": 1})
	ord := newTestOrder(order.StatusPicked, "SKU-A")

	cmd, err := commands.NewLookupBinCommand(bin.Barcode(), "packer-2")
	require.NoError(t, err)

	mockBinRepo := new(MockPickBinRepository)
	mockOrderRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("PickBinRepository").Return(mockBinRepo)
	mockUoW.On("OrderRepository").Return(mockOrderRepo)
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockBinRepo.On("GetByBarcode", ctx, bin.Barcode()).Return(bin, nil).Once()

	// Another station's conditional update already won the row.
	mockBinRepo.On("ClaimForPacking", ctx, bin.ID()).Return(false, nil).Once()
	mockOrderRepo.On("Get", ctx, bin.OrderID()).Return(ord, nil).Once()

	handler := commands.NewLookupBinCommandHandler(mockFactory)

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Claimed)
	assert.Equal(t, pickbin.StatusPacking, result.Bin.Status())
	mockBinRepo.AssertExpectations(t)
}

func TestLookupBinCommandHandler_Handle_SecondScanIsARead(t *testing.T) {
	// Arrange
	ctx := t.Context()
	bin := newTestBin(t, map[string]int{"SKU-A": 1})
	claimed, err := bin.Claim()
	require.NoError(t, err)
	require.True(t, claimed)

	ord := newTestOrder(order.StatusPicked, "SKU-A")

	cmd, err := commands.NewLookupBinCommand(bin.Barcode(), "packer-2")
	require.NoError(t, err)

	mockBinRepo := new(MockPickBinRepository)
	mockOrderRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("PickBinRepository").Return(mockBinRepo)
	mockUoW.On("OrderRepository").Return(mockOrderRepo)
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockBinRepo.On("GetByBarcode", ctx, bin.Barcode()).Return(bin, nil).Once()
	mockOrderRepo.On("Get", ctx, bin.OrderID()).Return(ord, nil).Once()

	handler := commands.NewLookupBinCommandHandler(mockFactory)

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Claimed)
	mockBinRepo.AssertNotCalled(t, "ClaimForPacking", ctx, bin.ID())
}

func TestLookupBinCommandHandler_Handle_TerminalBins(t *testing.T) {
	tests := []struct {
		name        string
		prepare     func(t *testing.T, bin *pickbin.PickBin)
		expectedErr error
	}{
		{
			name: "completed bin",
			prepare: func(t *testing.T, bin *pickbin.PickBin) {
				t.Helper()
				_, _, err := bin.VerifyItem("SKU-A", 1, time.Now().UTC())
				require.NoError(t, err)
				require.NoError(t, bin.Complete("packer-1", time.Now().UTC()))
			},
			expectedErr: commands.ErrBinAlreadyPacked,
		},
		{
			name: "cancelled bin",
			prepare: func(t *testing.T, bin *pickbin.PickBin) {
				t.Helper()
				require.NoError(t, bin.Cancel())
			},
			expectedErr: commands.ErrBinCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctx := t.Context()
			bin := newTestBin(t, map[string]int{"SKU-A": 1})
			tt.prepare(t, bin)

			cmd, err := commands.NewLookupBinCommand(bin.Barcode(), "packer-1")
			require.NoError(t, err)

			mockBinRepo := new(MockPickBinRepository)
			mockUoW := new(MockUoW)
			mockFactory := new(MockUoWFactory)

			mockFactory.On("Create").Return(mockUoW).Once()
			mockUoW.On("Begin", ctx).Return(nil).Once()
			mockUoW.On("PickBinRepository").Return(mockBinRepo)
			mockUoW.On("Rollback", ctx).Return(nil).Once()

			mockBinRepo.On("GetByBarcode", ctx, bin.Barcode()).Return(bin, nil).Once()

			handler := commands.NewLookupBinCommandHandler(mockFactory)

			// Act
			_, err = handler.Handle(ctx, cmd)

			// Assert
			require.Error(t, err)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}
