package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPickTaskWithCodes(t *testing.T) (*task.Task, *task.Item) {
	t.Helper()
	locationID := kernel.NewUUID()
	item, err := task.NewItem(task.NewItemParams{
		ID:               kernel.NewUUID(),
		OrderItemID:      kernel.NewUUID(),
		SKU:              "sku-a",
		ProductVariantID: kernel.NewUUID(),
		UPC:              "012345678905",
		Barcode:          "INT-001",
		LocationID:       &locationID,
		LocationName:     "A-01-02",
		LocationBarcode:  "loc-a0102",
		Sequence:         1,
		QuantityRequired: 3,
	})
	require.NoError(t, err)

	pickTask, err := task.NewTask(
		kernel.NewUUID(), kernel.NewUUID(), "PICK-20260901-A3F2", task.KindPick,
		[]*task.Item{item},
	)
	require.NoError(t, err)
	return pickTask, item
}

func TestScanLookupBuilder_Build(t *testing.T) {
	builder := services.NewScanLookupBuilder()

	t.Run("should return empty lookup without tasks", func(t *testing.T) {
		lookup := builder.Build(nil, nil)

		assert.Empty(t, lookup.Items)
		assert.Empty(t, lookup.Barcodes)
	})

	t.Run("should index every code of a pending pick line", func(t *testing.T) {
		pickTask, item := createPickTaskWithCodes(t)

		lookup := builder.Build(pickTask, nil)

		entry, ok := lookup.Items[item.ID().String()]
		require.True(t, ok)
		assert.Equal(t, "PICK", entry.Kind)
		assert.Equal(t, []string{"012345678905", "INT-001", "SKU-A"}, entry.Codes)

		// UPC, internal barcode, SKU and location barcode all resolve,
		// normalized to upper case.
		for _, code := range []string{"012345678905", "INT-001", "SKU-A", "LOC-A0102"} {
			target, found := lookup.Barcodes[code]
			require.True(t, found, "code %s should resolve", code)
			assert.Equal(t, item.ID().String(), target.TaskItemID)
		}
	})

	t.Run("should keep finished lines visible but unscannable", func(t *testing.T) {
		pickTask, item := createPickTaskWithCodes(t)
		_, err := pickTask.ConfirmPickItem(item.ID(), 3, true, "worker-1", time.Now().UTC())
		require.NoError(t, err)

		lookup := builder.Build(pickTask, nil)

		entry, ok := lookup.Items[item.ID().String()]
		require.True(t, ok)
		assert.Equal(t, "COMPLETED", entry.Status)
		assert.Equal(t, 3, entry.QuantityCompleted)
		assert.Empty(t, lookup.Barcodes)
	})

	t.Run("should merge pick and pack tasks", func(t *testing.T) {
		pickTask, _ := createPickTaskWithCodes(t)

		packItem, err := task.NewItem(task.NewItemParams{
			ID:               kernel.NewUUID(),
			OrderItemID:      kernel.NewUUID(),
			SKU:              "SKU-B",
			ProductVariantID: kernel.NewUUID(),
			Sequence:         1,
			QuantityRequired: 1,
		})
		require.NoError(t, err)
		packTask, err := task.NewTask(
			kernel.NewUUID(), pickTask.OrderID(), "PACK-20260901-B1C4", task.KindPack,
			[]*task.Item{packItem},
		)
		require.NoError(t, err)

		lookup := builder.Build(pickTask, packTask)

		assert.Len(t, lookup.Items, 2)
		target, ok := lookup.Barcodes["SKU-B"]
		require.True(t, ok)
		assert.Equal(t, "PACK", target.Kind)
	})
}
