package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1, nil)
	defer cancel()

	bus.Notify(context.Background(), Updated{Type: CartUpdated, Slot: "ecommerce-cart", ItemCount: 3})

	select {
	case ev := <-ch:
		assert.Equal(t, CartUpdated, ev.Type)
		assert.Equal(t, 3, ev.ItemCount)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBus_FilterBySlot(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(4, ForSlots("ecommerce-cart:1"))
	defer cancel()

	ctx := context.Background()
	bus.Notify(ctx, Updated{Slot: "ecommerce-cart:2"})
	bus.Notify(ctx, Updated{Slot: "ecommerce-cart:1", ItemCount: 1})

	require.Len(t, ch, 1)
	ev := <-ch
	assert.Equal(t, "ecommerce-cart:1", ev.Slot)
}

func TestBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	_, cancel := bus.Subscribe(1, nil)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Notify(context.Background(), Updated{ItemCount: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full subscriber")
	}
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1, nil)

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	// publishing after cancel is safe
	bus.Notify(context.Background(), Updated{})
}

type recordingNotifier struct {
	events []Updated
}

func (r *recordingNotifier) Notify(_ context.Context, ev Updated) {
	r.events = append(r.events, ev)
}

func TestMulti_NotifiesAll(t *testing.T) {
	a, b := &recordingNotifier{}, &recordingNotifier{}
	Multi{a, Nop{}, b}.Notify(context.Background(), Updated{Type: TrialUpdated})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}
