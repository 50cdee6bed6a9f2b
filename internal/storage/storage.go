package storage

import (
	"context"
	"errors"
	"fmt"
)

// Slot names for the persisted collections.
const (
	CartSlot     = "ecommerce-cart"
	TrialSlot    = "home-trial-items"
	WishlistSlot = "ecommerce-wishlist"
)

var ErrSlotEmpty = errors.New("slot is empty")

// Store is a durable key/value medium for serialized collections.
// Load returns ErrSlotEmpty when nothing has been saved under slot.
type Store interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, data []byte) error
}

// SessionSlot namespaces a slot for one client session.
func SessionSlot(session, base string) string {
	if session == "" {
		return base
	}
	return fmt.Sprintf("%s:%s", base, session)
}
