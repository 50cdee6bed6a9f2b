package events

import (
	"context"
	"sync"
)

// Bus fans events out to in-process subscribers. Delivery never blocks the
// publisher: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	ch     chan Updated
	filter func(Updated) bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscription)}
}

// Subscribe registers a listener. A nil filter receives everything.
// The returned cancel func unregisters and closes the channel.
func (b *Bus) Subscribe(buffer int, filter func(Updated) bool) (<-chan Updated, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Updated, buffer)
	b.subs[id] = subscription{ch: ch, filter: filter}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Bus) Notify(_ context.Context, ev Updated) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.subs {
		if s.filter != nil && !s.filter(ev) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
}

// ForSlots returns a filter accepting events for any of the given slots.
func ForSlots(slots ...string) func(Updated) bool {
	set := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		set[s] = struct{}{}
	}
	return func(ev Updated) bool {
		_, ok := set[ev.Slot]
		return ok
	}
}
