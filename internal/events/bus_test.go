package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twa-market/marketplace-go-app/internal/models"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	a, cancelA := bus.Subscribe(4)
	defer cancelA()
	b, cancelB := bus.Subscribe(4)
	defer cancelB()

	bus.Publish(DealUpdated{DealID: "3", Status: models.StatusCancelled})

	for _, ch := range []<-chan DealUpdated{a, b} {
		select {
		case e := <-ch:
			assert.Equal(t, "3", e.DealID)
			assert.Equal(t, models.StatusCancelled, e.Status)
		default:
			t.Fatal("expected a buffered event")
		}
	}
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Publish(DealUpdated{DealID: "1", Status: models.StatusConfirmed})
	bus.Publish(DealUpdated{DealID: "2", Status: models.StatusShipped})

	e := <-ch
	assert.Equal(t, "1", e.DealID)

	select {
	case e := <-ch:
		t.Fatalf("expected second event to be dropped, got %+v", e)
	default:
	}
}

func TestCancelClosesChannelAndUnsubscribes(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe(1)
	require.Equal(t, 1, bus.SubscriberCount())

	cancel()
	assert.Equal(t, 0, bus.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic
	bus.Publish(DealUpdated{DealID: "1", Status: models.StatusDelivered})

	// Second cancel is a no-op
	cancel()
}
