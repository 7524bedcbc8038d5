package task_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions.
func createPickItem(t *testing.T, sequence, quantity int) *task.Item {
	t.Helper()
	item, err := task.NewItem(task.NewItemParams{
		ID:               kernel.NewUUID(),
		OrderItemID:      kernel.NewUUID(),
		SKU:              "SKU-A",
		ProductVariantID: kernel.NewUUID(),
		Sequence:         sequence,
		QuantityRequired: quantity,
	})
	require.NoError(t, err)
	require.NotNil(t, item)
	return item
}

func createPickTask(t *testing.T, items ...*task.Item) *task.Task {
	t.Helper()
	if len(items) == 0 {
		items = []*task.Item{createPickItem(t, 1, 3)}
	}

	pickTask, err := task.NewTask(
		kernel.NewUUID(), kernel.NewUUID(), "PICK-20260901-A3F2", task.KindPick, items,
	)
	require.NoError(t, err)
	require.NotNil(t, pickTask)
	return pickTask
}

func createPackTask(t *testing.T, items ...*task.Item) *task.Task {
	t.Helper()
	if len(items) == 0 {
		items = []*task.Item{createPickItem(t, 1, 2)}
	}

	packTask, err := task.NewTask(
		kernel.NewUUID(), kernel.NewUUID(), "PACK-20260901-B1C4", task.KindPack, items,
	)
	require.NoError(t, err)
	require.NotNil(t, packTask)
	return packTask
}

func TestNewTask(t *testing.T) {
	t.Run("should create task with valid parameters", func(t *testing.T) {
		items := []*task.Item{createPickItem(t, 1, 3), createPickItem(t, 2, 1)}

		pickTask, err := task.NewTask(
			kernel.NewUUID(), kernel.NewUUID(), "PICK-20260901-A3F2", task.KindPick, items,
		)

		require.NoError(t, err)
		require.NoError(t, pickTask.Validate())
		assert.Equal(t, task.StatusPending, pickTask.Status())
		assert.Equal(t, 2, pickTask.TotalItems())
		assert.Equal(t, 0, pickTask.CompletedItems())
		assert.Equal(t, 0, pickTask.ShortItems())
		assert.Nil(t, pickTask.StartedAt())
		assert.Nil(t, pickTask.CompletedAt())
	})

	t.Run("should return error for empty number", func(t *testing.T) {
		_, err := task.NewTask(
			kernel.NewUUID(), kernel.NewUUID(), "", task.KindPick,
			[]*task.Item{createPickItem(t, 1, 3)},
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "number")
	})

	t.Run("should return error for empty items", func(t *testing.T) {
		_, err := task.NewTask(
			kernel.NewUUID(), kernel.NewUUID(), "PICK-20260901-A3F2", task.KindPick, nil,
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "items")
	})

	t.Run("should return error for duplicated sequence", func(t *testing.T) {
		items := []*task.Item{createPickItem(t, 1, 3), createPickItem(t, 1, 1)}

		_, err := task.NewTask(
			kernel.NewUUID(), kernel.NewUUID(), "PICK-20260901-A3F2", task.KindPick, items,
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sequence 1 is duplicated")
	})

	t.Run("should return error for invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := task.NewTask(
			invalidID, kernel.NewUUID(), "PICK-20260901-A3F2", task.KindPick,
			[]*task.Item{createPickItem(t, 1, 3)},
		)

		require.Error(t, err)
	})
}

func TestRestoreTask(t *testing.T) {
	t.Run("should recompute progress from restored items", func(t *testing.T) {
		now := time.Now().UTC()
		completed, err := task.RestoreItem(task.RestoreItemParams{
			NewItemParams: task.NewItemParams{
				ID:               kernel.NewUUID(),
				OrderItemID:      kernel.NewUUID(),
				SKU:              "SKU-A",
				ProductVariantID: kernel.NewUUID(),
				Sequence:         1,
				QuantityRequired: 3,
			},
			Status:            task.ItemCompleted,
			QuantityCompleted: 3,
			CompletedAt:       &now,
			CompletedBy:       "worker-1",
		})
		require.NoError(t, err)

		short, err := task.RestoreItem(task.RestoreItemParams{
			NewItemParams: task.NewItemParams{
				ID:               kernel.NewUUID(),
				OrderItemID:      kernel.NewUUID(),
				SKU:              "SKU-B",
				ProductVariantID: kernel.NewUUID(),
				Sequence:         2,
				QuantityRequired: 2,
			},
			Status:            task.ItemShort,
			QuantityCompleted: 1,
			CompletedAt:       &now,
			CompletedBy:       "worker-1",
		})
		require.NoError(t, err)

		restored, err := task.RestoreTask(task.RestoreTaskParams{
			ID:        kernel.NewUUID(),
			OrderID:   kernel.NewUUID(),
			Number:    "PICK-20260901-A3F2",
			Kind:      task.KindPick,
			Status:    task.StatusInProgress,
			Items:     []*task.Item{completed, short},
			StartedAt: &now,
		})

		require.NoError(t, err)
		assert.Equal(t, task.StatusInProgress, restored.Status())
		assert.Equal(t, 2, restored.CompletedItems())
		assert.Equal(t, 1, restored.ShortItems())
		assert.True(t, restored.AllItemsFinished())
	})

	t.Run("should return error for invalid status", func(t *testing.T) {
		_, err := task.RestoreTask(task.RestoreTaskParams{
			ID:      kernel.NewUUID(),
			OrderID: kernel.NewUUID(),
			Number:  "PICK-20260901-A3F2",
			Kind:    task.KindPick,
			Status:  task.Status(99),
			Items:   []*task.Item{createPickItem(t, 1, 3)},
		})

		require.Error(t, err)
	})
}

func TestTask_ConfirmPickItem(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should complete item at full quantity", func(t *testing.T) {
		item := createPickItem(t, 1, 3)
		pickTask := createPickTask(t, item)

		confirmed, err := pickTask.ConfirmPickItem(item.ID(), 3, true, "worker-1", now)

		require.NoError(t, err)
		assert.Equal(t, task.ItemCompleted, confirmed.Status())
		assert.Equal(t, 3, confirmed.QuantityCompleted())
		assert.True(t, confirmed.Scanned())
		assert.Equal(t, "worker-1", confirmed.CompletedBy())
		assert.Equal(t, task.StatusInProgress, pickTask.Status())
		assert.Equal(t, 1, pickTask.CompletedItems())
		require.NotNil(t, pickTask.StartedAt())
		assert.True(t, pickTask.AllItemsFinished())
	})

	t.Run("should record short pick below required quantity", func(t *testing.T) {
		item := createPickItem(t, 1, 5)
		pickTask := createPickTask(t, item)

		confirmed, err := pickTask.ConfirmPickItem(item.ID(), 2, false, "worker-1", now)

		require.NoError(t, err)
		assert.Equal(t, task.ItemShort, confirmed.Status())
		assert.Equal(t, 2, confirmed.QuantityCompleted())
		assert.True(t, confirmed.IsShort())
		assert.Equal(t, 1, pickTask.ShortItems())
		assert.True(t, pickTask.AllItemsFinished())
	})

	t.Run("should clamp over-confirmation to required quantity", func(t *testing.T) {
		item := createPickItem(t, 1, 3)
		pickTask := createPickTask(t, item)

		confirmed, err := pickTask.ConfirmPickItem(item.ID(), 10, false, "worker-1", now)

		require.NoError(t, err)
		assert.Equal(t, task.ItemCompleted, confirmed.Status())
		assert.Equal(t, 3, confirmed.QuantityCompleted())
	})

	t.Run("should return error on already finished item", func(t *testing.T) {
		item := createPickItem(t, 1, 3)
		pickTask := createPickTask(t, item)

		_, err := pickTask.ConfirmPickItem(item.ID(), 3, false, "worker-1", now)
		require.NoError(t, err)

		_, err = pickTask.ConfirmPickItem(item.ID(), 3, false, "worker-1", now)
		require.Error(t, err)
	})

	t.Run("should return error for unknown item", func(t *testing.T) {
		pickTask := createPickTask(t)

		_, err := pickTask.ConfirmPickItem(kernel.NewUUID(), 3, false, "worker-1", now)

		require.Error(t, err)
	})

	t.Run("should return error on pack task", func(t *testing.T) {
		item := createPickItem(t, 1, 2)
		packTask := createPackTask(t, item)

		_, err := packTask.ConfirmPickItem(item.ID(), 2, false, "worker-1", now)

		require.Error(t, err)
	})

	t.Run("should keep startedAt from first confirmation", func(t *testing.T) {
		first := createPickItem(t, 1, 1)
		second := createPickItem(t, 2, 1)
		pickTask := createPickTask(t, first, second)

		_, err := pickTask.ConfirmPickItem(first.ID(), 1, false, "worker-1", now)
		require.NoError(t, err)
		startedAt := pickTask.StartedAt()

		later := now.Add(time.Minute)
		_, err = pickTask.ConfirmPickItem(second.ID(), 1, false, "worker-1", later)
		require.NoError(t, err)

		assert.Equal(t, startedAt, pickTask.StartedAt())
		assert.Equal(t, 2, pickTask.CompletedItems())
	})
}

func TestTask_VerifyPackItem(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should verify item at full quantity", func(t *testing.T) {
		item := createPickItem(t, 1, 2)
		packTask := createPackTask(t, item)

		applied, err := packTask.VerifyPackItem(item.ID(), "worker-2", now)

		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, task.ItemCompleted, item.Status())
		assert.Equal(t, 2, item.QuantityCompleted())
		assert.True(t, packTask.AllItemsFinished())
	})

	t.Run("should treat double-scan as no-op", func(t *testing.T) {
		item := createPickItem(t, 1, 2)
		packTask := createPackTask(t, item)

		applied, err := packTask.VerifyPackItem(item.ID(), "worker-2", now)
		require.NoError(t, err)
		require.True(t, applied)

		applied, err = packTask.VerifyPackItem(item.ID(), "worker-2", now)
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("should return error on pick task", func(t *testing.T) {
		item := createPickItem(t, 1, 3)
		pickTask := createPickTask(t, item)

		_, err := pickTask.VerifyPackItem(item.ID(), "worker-2", now)

		require.Error(t, err)
	})
}

func TestTask_Complete(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should complete once every item is finished", func(t *testing.T) {
		item := createPickItem(t, 1, 1)
		pickTask := createPickTask(t, item)

		_, err := pickTask.ConfirmPickItem(item.ID(), 1, false, "worker-1", now)
		require.NoError(t, err)

		err = pickTask.Complete(now)

		require.NoError(t, err)
		assert.Equal(t, task.StatusCompleted, pickTask.Status())
		require.NotNil(t, pickTask.CompletedAt())
	})

	t.Run("should return error with pending items", func(t *testing.T) {
		pickTask := createPickTask(t)

		err := pickTask.Complete(now)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "pending")
	})
}

func TestTask_Cancel(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should cancel pending task", func(t *testing.T) {
		pickTask := createPickTask(t)

		err := pickTask.Cancel(now)

		require.NoError(t, err)
		assert.Equal(t, task.StatusCancelled, pickTask.Status())
	})

	t.Run("should return error for terminal task", func(t *testing.T) {
		item := createPickItem(t, 1, 1)
		pickTask := createPickTask(t, item)
		_, err := pickTask.ConfirmPickItem(item.ID(), 1, false, "worker-1", now)
		require.NoError(t, err)
		require.NoError(t, pickTask.Complete(now))

		err = pickTask.Cancel(now)

		require.Error(t, err)
	})
}

func TestTask_CapturePackedMeasurements(t *testing.T) {
	t.Run("should store measurements on pack task", func(t *testing.T) {
		packTask := createPackTask(t)
		weight, err := task.NewWeight(decimal.NewFromFloat(12.5), "lb")
		require.NoError(t, err)
		dims, err := task.NewDimensions(
			decimal.NewFromInt(12), decimal.NewFromInt(10), decimal.NewFromInt(4), "in",
		)
		require.NoError(t, err)

		err = packTask.CapturePackedMeasurements(weight, &dims)

		require.NoError(t, err)
		require.NotNil(t, packTask.PackedWeight())
		assert.Equal(t, "12.5 lb", packTask.PackedWeight().String())
		require.NotNil(t, packTask.PackedDimensions())
		assert.Equal(t, "12x10x4 in", packTask.PackedDimensions().String())
	})

	t.Run("should return error on pick task", func(t *testing.T) {
		pickTask := createPickTask(t)
		weight, err := task.NewWeight(decimal.NewFromInt(1), "")
		require.NoError(t, err)

		err = pickTask.CapturePackedMeasurements(weight, nil)

		require.Error(t, err)
	})
}

func TestTask_PendingItems(t *testing.T) {
	now := time.Now().UTC()
	first := createPickItem(t, 1, 1)
	second := createPickItem(t, 2, 1)
	pickTask := createPickTask(t, first, second)

	_, err := pickTask.ConfirmPickItem(first.ID(), 1, false, "worker-1", now)
	require.NoError(t, err)

	pending := pickTask.PendingItems()

	require.Len(t, pending, 1)
	assert.True(t, pending[0].ID().IsEqual(second.ID()))
}

func TestGenerateNumber(t *testing.T) {
	at := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	number := task.GenerateNumber(task.KindPick, at)

	assert.Regexp(t, `^PICK-20260901-[0-9A-F]{4}$`, number)
	assert.Regexp(t, `^PACK-20260901-[0-9A-F]{4}$`, task.GenerateNumber(task.KindPack, at))
}
