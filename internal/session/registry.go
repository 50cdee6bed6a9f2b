package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/storage"
	"github.com/fjod/go_cart/storefront/internal/trial"
	"github.com/fjod/go_cart/storefront/internal/wishlist"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Bag groups the stores of one client session. The stores never touch each
// other's collections; the cart only calls the wishlist's own Add.
type Bag struct {
	ID       string
	Cart     *cart.Store
	Trial    *trial.Store
	Wishlist *wishlist.Store
}

type entry struct {
	bag      *Bag
	lastUsed time.Time
}

// Registry hands out the bag of each session. A cached bag is re-read from
// storage on every Get so writes made by other processes are picked up; the
// cache keeps one set of stores per session so mutations within this process
// are serialized by the stores' own locks.
type Registry struct {
	storage  storage.Store
	notifier events.Notifier
	policy   pricing.Policy
	log      *zap.Logger
	now      func() time.Time

	mu   sync.Mutex
	bags map[string]*entry
	sfg  singleflight.Group // one restore per session at a time
}

func NewRegistry(st storage.Store, notifier events.Notifier, policy pricing.Policy, log *zap.Logger) *Registry {
	return &Registry{
		storage:  st,
		notifier: notifier,
		policy:   policy,
		log:      log,
		now:      time.Now,
		bags:     make(map[string]*entry),
	}
}

// Get returns the bag for id with its collections freshly read from storage.
//
// A bag whose first restore hit a backend error is returned empty but not
// cached, so the next Get tries the backend again instead of keeping (and
// later persisting) the empty fallback.
func (r *Registry) Get(ctx context.Context, id string) *Bag {
	if b, ok := r.touch(id); ok {
		r.refresh(ctx, b)
		return b
	}

	v, _, _ := r.sfg.Do(id, func() (interface{}, error) {
		if b, ok := r.touch(id); ok {
			return b, nil
		}

		b, err := r.load(ctx, id)
		if err != nil {
			r.log.Warn("session storage unreadable, bag not cached", zap.String("session", id), zap.Error(err))
			return b, nil
		}

		r.mu.Lock()
		r.bags[id] = &entry{bag: b, lastUsed: r.now()}
		r.mu.Unlock()
		return b, nil
	})
	return v.(*Bag)
}

func (r *Registry) touch(id string) (*Bag, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.bags[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.bag, true
}

func (r *Registry) load(ctx context.Context, id string) (*Bag, error) {
	log := r.log.With(zap.String("session", id))

	wl := wishlist.New(r.storage, storage.SessionSlot(id, storage.WishlistSlot),
		wishlist.WithNotifier(r.notifier),
		wishlist.WithLogger(log),
	)
	c := cart.New(r.storage, storage.SessionSlot(id, storage.CartSlot),
		cart.WithNotifier(r.notifier),
		cart.WithWishlist(wl),
		cart.WithPolicy(r.policy),
		cart.WithLogger(log),
	)
	t := trial.New(r.storage, storage.SessionSlot(id, storage.TrialSlot),
		trial.WithNotifier(r.notifier),
		trial.WithLogger(log),
	)

	err := errors.Join(wl.Reload(ctx), c.Reload(ctx), t.Reload(ctx))
	if err == nil {
		log.Debug("session restored", zap.Int("cart_items", c.TotalItemCount()), zap.Int("trial_items", t.ItemCount()))
	}
	return &Bag{ID: id, Cart: c, Trial: t, Wishlist: wl}, err
}

// refresh re-reads a cached bag. A store whose slot cannot be read keeps what
// it holds; the failure is already logged by the store.
func (r *Registry) refresh(ctx context.Context, b *Bag) {
	_ = b.Wishlist.Reload(ctx)
	_ = b.Cart.Reload(ctx)
	_ = b.Trial.Reload(ctx)
}

// Evict forgets the cached bag, including its coupon.
func (r *Registry) Evict(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bags, id)
}

// Sweep evicts bags unused for longer than idle and returns how many went.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.bags {
		if e.lastUsed.Before(cutoff) {
			delete(r.bags, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.log.Debug("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

// Len reports how many bags are cached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bags)
}

func (r *Registry) ClearCart(ctx context.Context, id string) {
	r.Get(ctx, id).Cart.Clear(ctx)
}

func (r *Registry) ClearTrial(ctx context.Context, id string) {
	r.Get(ctx, id).Trial.Clear(ctx)
}
