package events

import (
	"context"
	"time"
)

// Event types broadcast after a collection has been persisted.
const (
	CartUpdated     = "ecommerce-cart-updated"
	TrialUpdated    = "home-trial-updated"
	WishlistUpdated = "ecommerce-wishlist-updated"
)

// Updated tells independent views (header badges and the like) that a
// persisted collection changed and its derived counts should be re-read.
type Updated struct {
	Type      string    `json:"type"`
	Slot      string    `json:"slot"`
	ItemCount int       `json:"item_count"`
	At        time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, ev Updated)
}

type Nop struct{}

func (Nop) Notify(context.Context, Updated) {}

// Multi delivers every event to each notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Updated) {
	for _, n := range m {
		n.Notify(ctx, ev)
	}
}
