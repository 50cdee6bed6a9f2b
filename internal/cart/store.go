package cart

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/storage"
	"go.uber.org/zap"
)

// Wishlist receives lines moved out of the cart.
type Wishlist interface {
	Add(ctx context.Context, item domain.WishlistItem)
}

// Store owns the cart lines of one session. Every mutation is written to the
// slot before it returns and then announced through the notifier.
type Store struct {
	mu     sync.Mutex
	items  []domain.CartLineItem
	coupon *domain.Coupon

	slot     string
	storage  storage.Store
	notifier events.Notifier
	wishlist Wishlist
	policy   pricing.Policy
	log      *zap.Logger
}

type Option func(*Store)

func WithNotifier(n events.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithWishlist(w Wishlist) Option {
	return func(s *Store) { s.wishlist = w }
}

func WithPolicy(p pricing.Policy) Option {
	return func(s *Store) { s.policy = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns an empty cart bound to slot. Call Reload to read what is saved there.
func New(st storage.Store, slot string, opts ...Option) *Store {
	s := &Store{
		items:    []domain.CartLineItem{},
		slot:     slot,
		storage:  st,
		notifier: events.Nop{},
		policy:   pricing.DefaultPolicy(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload replaces the lines with the ones saved in the slot. If the backend
// cannot be read the current lines are kept and the error is returned.
// The coupon is not persisted and survives a reload.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	restored, err := storage.Restore[domain.CartLineItem](ctx, s.storage, s.slot, s.log)
	if err != nil {
		return err
	}
	s.items = slices.DeleteFunc(restored, func(l domain.CartLineItem) bool {
		return l.Quantity < 1
	})
	return nil
}

// AddItem adds quantity of product in size. An existing line for the same
// product and size has its quantity increased instead. Quantities below 1 count as 1.
func (s *Store) AddItem(ctx context.Context, product domain.Product, size string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.LineKey{ProductID: product.ID, Size: size}
	if i := s.indexLocked(key); i >= 0 {
		line := s.items[i]
		line.Quantity += quantity
		s.items[i] = line
	} else {
		s.items = append(s.items, domain.NewCartLineItem(product, size, quantity))
	}
	s.persistLocked(ctx)
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (s *Store) UpdateQuantity(ctx context.Context, key domain.LineKey, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, key)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(key)
	if i < 0 {
		return
	}
	s.items[i].Quantity = quantity
	s.persistLocked(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, key domain.LineKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.removeLocked(key); ok {
		s.persistLocked(ctx)
	}
}

// MoveToWishlist takes the line out of the cart and hands it to the wishlist.
func (s *Store) MoveToWishlist(ctx context.Context, key domain.LineKey) {
	s.mu.Lock()
	line, ok := s.removeLocked(key)
	if ok {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if ok && s.wishlist != nil {
		s.wishlist.Add(ctx, domain.WishlistItemFromLine(line))
	}
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.CartLineItem{}
	s.persistLocked(ctx)
}

func (s *Store) ApplyCoupon(c domain.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = &c
}

func (s *Store) RemoveCoupon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = nil
}

func (s *Store) Coupon() *domain.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coupon == nil {
		return nil
	}
	c := *s.coupon
	return &c
}

func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Policy() pricing.Policy {
	return s.policy
}

func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotals(s.items, s.coupon, s.policy)
}

func (s *Store) Subtotal() pricing.Amount    { return s.Totals().Subtotal }
func (s *Store) TotalItemCount() int         { return s.Totals().ItemCount }
func (s *Store) Savings() pricing.Amount     { return s.Totals().Savings }
func (s *Store) Discount() pricing.Amount    { return s.Totals().Discount }
func (s *Store) ShippingFee() pricing.Amount { return s.Totals().Shipping }
func (s *Store) Tax() pricing.Amount         { return s.Totals().Tax }
func (s *Store) Total() pricing.Amount       { return s.Totals().Total }

func (s *Store) indexLocked(key domain.LineKey) int {
	return slices.IndexFunc(s.items, func(l domain.CartLineItem) bool {
		return l.Key() == key
	})
}

func (s *Store) removeLocked(key domain.LineKey) (domain.CartLineItem, bool) {
	i := s.indexLocked(key)
	if i < 0 {
		return domain.CartLineItem{}, false
	}
	line := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	return line, true
}

// persistLocked saves the cart and signals listeners. A failed save is logged
// and leaves the in-memory cart as it is; no signal is sent for it.
func (s *Store) persistLocked(ctx context.Context) {
	if err := storage.Persist(ctx, s.storage, s.slot, s.items); err != nil {
		s.log.Error("failed to persist cart", zap.String("slot", s.slot), zap.Error(err))
		return
	}
	s.notifier.Notify(ctx, events.Updated{
		Type:      events.CartUpdated,
		Slot:      s.slot,
		ItemCount: ItemCount(s.items),
		At:        time.Now(),
	})
}
