package commands_test

import (
	"strings"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGeneratePackListCommandHandler_Handle_MirrorsPickedQuantities(t *testing.T) {
	// Arrange
	ctx := t.Context()
	ord := newTestOrder(order.StatusPicked, "SKU-A", "SKU-B")
	pickTask := newTestPickTask(t, ord, 2)

	// SKU-A picked in full, SKU-B short at 1 of 3.
	now := time.Now().UTC()
	_, err := pickTask.ConfirmPickItem(pickTask.Items()[0].ID(), 3, true, "worker-1", now)
	require.NoError(t, err)
	_, err = pickTask.ConfirmPickItem(pickTask.Items()[1].ID(), 1, true, "worker-1", now)
	require.NoError(t, err)
	require.NoError(t, pickTask.Complete(now))

	cmd, err := commands.NewGeneratePackListCommand(ord.ID, "packer-1")
	require.NoError(t, err)

	mockTaskRepo := new(MockTaskRepository)
	mockOrderRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)
	mockStore := new(MockEventStore)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("TaskRepository").Return(mockTaskRepo)
	mockUoW.On("OrderRepository").Return(mockOrderRepo)
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockOrderRepo.On("Get", ctx, ord.ID).Return(ord, nil).Once()
	mockTaskRepo.On("GetActiveByOrderAndKind", ctx, ord.ID, task.KindPack).
		Return((*task.Task)(nil), errs.NewObjectNotFoundError("task", ord.ID.String())).Once()
	mockTaskRepo.On("GetCompletedByOrderAndKind", ctx, ord.ID, task.KindPick).Return(pickTask, nil).Once()
	mockTaskRepo.On("Add", ctx, mock.AnythingOfType("*task.Task")).Return(nil).Once()
	mockOrderRepo.On("UpdateStatus", ctx, ord.ID, order.StatusPacking).Return(nil).Once()
	mockStore.On("Append", ctx, mock.Anything).Return(nil).Once()

	handler := commands.NewGeneratePackListCommandHandler(mockFactory, testRecorder(mockStore))

	// Act
	packTask, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, task.KindPack, packTask.Kind())
	assert.True(t, strings.HasPrefix(packTask.Number(), "PACK-"))
	require.Len(t, packTask.Items(), 2)
	assert.Equal(t, 3, packTask.Items()[0].QuantityRequired())
	assert.Equal(t, 1, packTask.Items()[1].QuantityRequired())
	assert.Nil(t, packTask.Items()[0].LocationID())

	mockUoW.AssertExpectations(t)
	mockTaskRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestGeneratePackListCommandHandler_Handle_NothingPicked(t *testing.T) {
	// Arrange
	ctx := t.Context()
	ord := newTestOrder(order.StatusPicked, "SKU-A")
	pickTask := newTestPickTask(t, ord, 1)

	// The only line came up empty.
	now := time.Now().UTC()
	_, err := pickTask.ConfirmPickItem(pickTask.Items()[0].ID(), 0, true, "worker-1", now)
	require.NoError(t, err)
	require.NoError(t, pickTask.Complete(now))

	cmd, err := commands.NewGeneratePackListCommand(ord.ID, "packer-1")
	require.NoError(t, err)

	mockTaskRepo := new(MockTaskRepository)
	mockOrderRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("TaskRepository").Return(mockTaskRepo)
	mockUoW.On("OrderRepository").Return(mockOrderRepo)
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockOrderRepo.On("Get", ctx, ord.ID).Return(ord, nil).Once()
	mockTaskRepo.On("GetActiveByOrderAndKind", ctx, ord.ID, task.KindPack).
		Return((*task.Task)(nil), errs.NewObjectNotFoundError("task", ord.ID.String())).Once()
	mockTaskRepo.On("GetCompletedByOrderAndKind", ctx, ord.ID, task.KindPick).Return(pickTask, nil).Once()

	handler := commands.NewGeneratePackListCommandHandler(mockFactory, testRecorder(new(MockEventStore)))

	// Act
	_, err = handler.Handle(ctx, cmd)

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrNoPickedItems)
}

func TestGeneratePackListCommandHandler_Handle_OrderNotPicked(t *testing.T) {
	// Arrange
	ctx := t.Context()
	ord := newTestOrder(order.StatusPicking, "SKU-A")

	cmd, err := commands.NewGeneratePackListCommand(ord.ID, "packer-1")
	require.NoError(t, err)

	mockOrderRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("OrderRepository").Return(mockOrderRepo)
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	mockOrderRepo.On("Get", ctx, ord.ID).Return(ord, nil).Once()

	handler := commands.NewGeneratePackListCommandHandler(mockFactory, testRecorder(new(MockEventStore)))

	// Act
	_, err = handler.Handle(ctx, cmd)

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidState)
}
