package live_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/live"
	"fulfillment/internal/core/domain/model/fulfillmentevent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(orderID, id string) fulfillmentevent.Record {
	return fulfillmentevent.Record{
		ID:            id,
		OrderID:       orderID,
		Type:          fulfillmentevent.TypePicklistItemPicked,
		Payload:       []byte(`{}`),
		CorrelationID: "corr-1",
		CreatedAt:     time.Now().UTC(),
	}
}

func TestBroadcaster_DeliversToOrderSubscribers(t *testing.T) {
	// Arrange
	broadcaster := live.NewBroadcaster()
	defer broadcaster.Close()

	ch, cancel := broadcaster.Subscribe("order-1")
	defer cancel()

	otherCh, otherCancel := broadcaster.Subscribe("order-2")
	defer otherCancel()

	// Act
	err := broadcaster.Publish(context.Background(), testRecord("order-1", "evt-1"))

	// Assert
	require.NoError(t, err)

	select {
	case record := <-ch:
		assert.Equal(t, "evt-1", record.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a delivered record")
	}

	select {
	case record := <-otherCh:
		t.Fatalf("unexpected record for other order: %s", record.ID)
	default:
	}
}

func TestBroadcaster_SlowSubscriberIsSkipped(t *testing.T) {
	// Arrange
	broadcaster := live.NewBroadcaster()
	defer broadcaster.Close()

	ch, cancel := broadcaster.Subscribe("order-1")
	defer cancel()

	// Act: overfill the subscriber buffer; publishes must not block
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = broadcaster.Publish(context.Background(), testRecord("order-1", "evt"))
		}
	}()

	// Assert
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publishing blocked on a slow subscriber")
	}
	assert.NotEmpty(t, ch)
}

func TestBroadcaster_CancelStopsDelivery(t *testing.T) {
	// Arrange
	broadcaster := live.NewBroadcaster()
	defer broadcaster.Close()

	ch, cancel := broadcaster.Subscribe("order-1")

	// Act
	cancel()
	cancel() // safe to call twice

	err := broadcaster.Publish(context.Background(), testRecord("order-1", "evt-1"))

	// Assert
	require.NoError(t, err)

	_, open := <-ch
	assert.False(t, open, "channel should be closed after cancel")
}

func TestBroadcaster_CloseShutsAllSubscribers(t *testing.T) {
	// Arrange
	broadcaster := live.NewBroadcaster()
	ch, cancel := broadcaster.Subscribe("order-1")

	// Act
	broadcaster.Close()
	cancel() // must not panic after Close

	// Assert
	_, open := <-ch
	assert.False(t, open)

	lateCh, lateCancel := broadcaster.Subscribe("order-1")
	defer lateCancel()
	_, open = <-lateCh
	assert.False(t, open, "subscriptions after Close get a closed channel")
}

type stubPublisher struct {
	records []fulfillmentevent.Record
	err     error
}

func (s *stubPublisher) Publish(_ context.Context, record fulfillmentevent.Record) error {
	s.records = append(s.records, record)
	return s.err
}

func TestCompositePublisher_ForwardsToAll(t *testing.T) {
	// Arrange
	first := &stubPublisher{err: errors.New("broker down")}
	second := &stubPublisher{}
	composite := live.NewCompositePublisher(first, second)

	// Act
	err := composite.Publish(context.Background(), testRecord("order-1", "evt-1"))

	// Assert: first error is reported, every publisher still sees the record
	require.Error(t, err)
	assert.Len(t, first.records, 1)
	assert.Len(t, second.records, 1)
}
