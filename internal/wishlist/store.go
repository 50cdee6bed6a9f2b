package wishlist

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/storage"
	"go.uber.org/zap"
)

// Store owns the wishlist of one session. Items are unique by slug.
type Store struct {
	mu    sync.Mutex
	items []domain.WishlistItem

	slot     string
	storage  storage.Store
	notifier events.Notifier
	log      *zap.Logger
}

type Option func(*Store)

func WithNotifier(n events.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

func New(st storage.Store, slot string, opts ...Option) *Store {
	s := &Store{
		items:    []domain.WishlistItem{},
		slot:     slot,
		storage:  st,
		notifier: events.Nop{},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload re-reads the slot, keeping the current items when the backend fails.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := storage.Restore[domain.WishlistItem](ctx, s.storage, s.slot, s.log)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

func (s *Store) Add(ctx context.Context, item domain.WishlistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(item.Slug) >= 0 {
		return
	}
	s.items = append(s.items, item)
	s.persistLocked(ctx)
}

func (s *Store) Remove(ctx context.Context, slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(slug)
	if i < 0 {
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.persistLocked(ctx)
}

// Toggle adds product when absent and removes it when present.
// It reports whether the product is on the wishlist afterwards.
func (s *Store) Toggle(ctx context.Context, product domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(product.Slug); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
		s.persistLocked(ctx)
		return false
	}
	s.items = append(s.items, domain.NewWishlistItem(product))
	s.persistLocked(ctx)
	return true
}

func (s *Store) Contains(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(slug) >= 0
}

func (s *Store) Items() []domain.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) indexLocked(slug string) int {
	return slices.IndexFunc(s.items, func(it domain.WishlistItem) bool {
		return it.Slug == slug
	})
}

func (s *Store) persistLocked(ctx context.Context) {
	if err := storage.Persist(ctx, s.storage, s.slot, s.items); err != nil {
		s.log.Error("failed to persist wishlist", zap.String("slot", s.slot), zap.Error(err))
		return
	}
	s.notifier.Notify(ctx, events.Updated{
		Type:      events.WishlistUpdated,
		Slot:      s.slot,
		ItemCount: len(s.items),
		At:        time.Now(),
	})
}
