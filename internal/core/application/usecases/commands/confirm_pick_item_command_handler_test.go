package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickbin"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfirmPickItemCommandHandler_Handle_FullPick(t *testing.T) {
	// Arrange
	ctx := t.Context()
	ord := newTestOrder(order.StatusPicking, "SKU-A", "SKU-B")
	pickTask := newTestPickTask(t, ord, 2)
	line := pickTask.Items()[0]

	cmd, err := commands.NewConfirmPickItemCommand(line.ID(), nil, true, "worker-1")
	require.NoError(t, err)

	mockTaskRepo := new(MockTaskRepository)
	mockOrderRepo := new(MockOrderRepository)
	mockAllocRepo := new(MockAllocationRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)
	mockStore := new(MockEventStore)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("TaskRepository").Return(mockTaskRepo)
	mockUoW.On("OrderRepository").Return(mockOrderRepo)
	mockUoW.On("AllocationRepository").Return(mockAllocRepo)
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockTaskRepo.On("GetByItemID", ctx, line.ID()).Return(pickTask, nil).Once()
	mockAllocRepo.On("UpdateStatus", ctx, *line.AllocationID(), order.AllocationPicked).Return(nil).Once()
	mockAllocRepo.On("Get", ctx, *line.AllocationID()).
		Return(&order.Allocation{ID: *line.AllocationID(), Status: order.AllocationPicked}, nil).Once()
	mockOrderRepo.On("IncrementItemPickedQty", ctx, line.OrderItemID(), 3).Return(nil).Once()
	mockTaskRepo.On("Update", ctx, pickTask).Return(nil).Once()
	mockStore.On("Append", ctx, mock.Anything).Return(nil).Once()

	handler := commands.NewConfirmPickItemCommandHandler(mockFactory, testRecorder(mockStore))

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.False(t, result.TaskCompleted)
	assert.Nil(t, result.Bin)
	assert.Equal(t, task.ItemCompleted, result.Item.Status())
	assert.Equal(t, 3, result.Item.QuantityCompleted())
	assert.True(t, result.Item.Scanned())
	assert.Equal(t, task.StatusInProgress, pickTask.Status())
	assert.Equal(t, 1, pickTask.CompletedItems())

	mockUoW.AssertExpectations(t)
	mockTaskRepo.AssertExpectations(t)
	mockOrderRepo.AssertExpectations(t)
	mockAllocRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestConfirmPickItemCommandHandler_Handle_ShortPickCompletesTaskAndStagesBin(t *testing.T) {
	// Arrange
	ctx := t.Context()
	ord := newTestOrder(order.StatusPicking, "SKU-A")
	pickTask := newTestPickTask(t, ord, 1)
	line := pickTask.Items()[0]

	cmd, err := commands.NewConfirmPickItemCommand(line.ID(), intPtr(1), true, "worker-1")
	require.NoError(t, err)

	mockTaskRepo := new(MockTaskRepository)
	mockBinRepo := new(MockPickBinRepository)
	mockOrderRepo := new(MockOrderRepository)
	mockAllocRepo := new(MockAllocationRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)
	mockStore := new(MockEventStore)

	var stagedBin *pickbin.PickBin

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("TaskRepository").Return(mockTaskRepo)
	mockUoW.On("PickBinRepository").Return(mockBinRepo)
	mockUoW.On("OrderRepository").Return(mockOrderRepo)
	mockUoW.On("AllocationRepository").Return(mockAllocRepo)
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockTaskRepo.On("GetByItemID", ctx, line.ID()).Return(pickTask, nil).Once()
	mockAllocRepo.On("UpdateStatus", ctx, *line.AllocationID(), order.AllocationPartiallyPicked).
		Return(nil).Once()
	mockAllocRepo.On("Get", ctx, *line.AllocationID()).
		Return(&order.Allocation{ID: *line.AllocationID()}, nil).Once()
	mockOrderRepo.On("IncrementItemPickedQty", ctx, line.OrderItemID(), 1).Return(nil).Once()
	mockOrderRepo.On("Get", ctx, ord.ID).Return(ord, nil).Once()
	mockBinRepo.On("Add", ctx, mock.MatchedBy(func(b *pickbin.PickBin) bool {
		stagedBin = b
		return true
	})).Return(nil).Once()
	mockOrderRepo.On("UpdateStatus", ctx, ord.ID, order.StatusPicked).Return(nil).Once()
	mockTaskRepo.On("Update", ctx, pickTask).Return(nil).Once()
	mockStore.On("Append", ctx, mock.Anything).Return(nil).Once()

	handler := commands.NewConfirmPickItemCommandHandler(mockFactory, testRecorder(mockStore))

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.TaskCompleted)
	assert.Equal(t, task.ItemShort, result.Item.Status())
	assert.Equal(t, 1, result.Item.QuantityCompleted())
	assert.Equal(t, task.StatusCompleted, pickTask.Status())
	assert.Equal(t, 1, pickTask.ShortItems())

	// The bin stages only what was actually picked.
	require.NotNil(t, result.Bin)
	require.NotNil(t, stagedBin)
	assert.True(t, result.Bin.IsEqual(stagedBin))
	assert.Equal(t, pickbin.StatusStaged, stagedBin.Status())
	require.Len(t, stagedBin.Items(), 1)
	assert.Equal(t, "SKU-A", stagedBin.Items()[0].SKU())
	assert.Equal(t, 1, stagedBin.Items()[0].Quantity())

	mockUoW.AssertExpectations(t)
	mockBinRepo.AssertExpectations(t)
	mockOrderRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestConfirmPickItemCommandHandler_Handle_FinishedLineFails(t *testing.T) {
	// Arrange
	ctx := t.Context()
	ord := newTestOrder(order.StatusPicking, "SKU-A", "SKU-B")
	pickTask := newTestPickTask(t, ord, 2)
	line := pickTask.Items()[0]

	// Finish the line up front so the handler's confirm attempt must fail.
	_, err := pickTask.ConfirmPickItem(line.ID(), 3, true, "worker-1", time.Now().UTC())
	require.NoError(t, err)

	cmd, err := commands.NewConfirmPickItemCommand(line.ID(), nil, true, "worker-2")
	require.NoError(t, err)

	mockTaskRepo := new(MockTaskRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("TaskRepository").Return(mockTaskRepo)
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockTaskRepo.On("GetByItemID", ctx, line.ID()).Return(pickTask, nil).Once()

	handler := commands.NewConfirmPickItemCommandHandler(mockFactory, testRecorder(new(MockEventStore)))

	// Act
	_, err = handler.Handle(ctx, cmd)

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	mockUoW.AssertNotCalled(t, "Commit", ctx)
}

func TestConfirmPickItemCommandHandler_Handle_InvalidCommand(t *testing.T) {
	// Arrange
	ctx := t.Context()
	var invalidCmd commands.ConfirmPickItemCommand // zero value command

	mockFactory := new(MockUoWFactory)
	handler := commands.NewConfirmPickItemCommandHandler(mockFactory, testRecorder(new(MockEventStore)))

	// Act
	_, err := handler.Handle(ctx, invalidCmd)

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrConfirmPickItemCommandIsNotConstructed)
	mockFactory.AssertExpectations(t)
}

func TestNewConfirmPickItemCommand_NegativeQuantity(t *testing.T) {
	// Act
	_, err := commands.NewConfirmPickItemCommand(kernel.NewUUID(), intPtr(-1), false, "worker-1")

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
