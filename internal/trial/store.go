package trial

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/storage"
	"go.uber.org/zap"
)

// Bag size limits. A bag is ready for checkout when it holds MinItems to
// MaxItems items; it can never hold more than MaxItems.
const (
	MinItems = 5
	MaxItems = 10
)

type AddOutcome int

const (
	Added AddOutcome = iota
	Full
	Duplicate
)

func (o AddOutcome) String() string {
	switch o {
	case Added:
		return "added"
	case Full:
		return "full"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Phase is where a bag stands on the way to checkout.
type Phase string

const (
	PhaseEmpty     Phase = "EMPTY"
	PhaseSelecting Phase = "SELECTING"
	PhaseReady     Phase = "READY"
)

// ValidCount reports whether n items make a bag that may proceed to checkout.
func ValidCount(n int) bool {
	return n >= MinItems && n <= MaxItems
}

// Store owns the home-trial bag of one session.
type Store struct {
	mu    sync.Mutex
	items []domain.HomeTrialItem

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
		items:    []domain.HomeTrialItem{},
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

// Reload re-reads the bag from its slot. If the backend cannot be read the
// current items are kept and the error is returned.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := restore(ctx, s.storage, s.slot, s.log)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// restore drops duplicates and anything past MaxItems so a hand-edited slot
// cannot break the bag limits.
func restore(ctx context.Context, st storage.Store, slot string, log *zap.Logger) ([]domain.HomeTrialItem, error) {
	saved, err := storage.Restore[domain.HomeTrialItem](ctx, st, slot, log)
	if err != nil {
		return nil, err
	}
	items := make([]domain.HomeTrialItem, 0, len(saved))
	seen := make(map[domain.LineKey]struct{}, len(saved))
	for _, it := range saved {
		if _, dup := seen[it.Key()]; dup || len(items) == MaxItems {
			continue
		}
		seen[it.Key()] = struct{}{}
		items = append(items, it)
	}
	if len(items) != len(saved) {
		log.Warn("trimmed invalid home trial slot", zap.String("slot", slot), zap.Int("saved", len(saved)), zap.Int("kept", len(items)))
	}
	return items, nil
}

// Add puts product in size into the bag. A full bag or an item already in the
// bag leaves everything unchanged; the outcome tells the caller which.
func (s *Store) Add(ctx context.Context, product domain.Product, size string) AddOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) >= MaxItems {
		return Full
	}
	key := domain.LineKey{ProductID: product.ID, Size: size}
	if s.indexLocked(key) >= 0 {
		return Duplicate
	}

	s.items = append(s.items, domain.NewHomeTrialItem(product, size))
	s.persistLocked(ctx)
	return Added
}

func (s *Store) Remove(ctx context.Context, productID, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(domain.LineKey{ProductID: productID, Size: size})
	if i < 0 {
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.persistLocked(ctx)
}

// Clear empties the bag. Meant to run once, after trial billing completes.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.HomeTrialItem{}
	s.persistLocked(ctx)
}

func (s *Store) Items() []domain.HomeTrialItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) IsValid() bool {
	return ValidCount(s.ItemCount())
}

func (s *Store) Phase() Phase {
	return PhaseOf(s.ItemCount())
}

func (s *Store) Guidance() string {
	return GuidanceFor(s.ItemCount())
}

func PhaseOf(n int) Phase {
	switch {
	case n == 0:
		return PhaseEmpty
	case ValidCount(n):
		return PhaseReady
	default:
		return PhaseSelecting
	}
}

// GuidanceFor tells the shopper how to reach a valid bag, or "" when it is valid.
func GuidanceFor(n int) string {
	switch {
	case n < MinItems:
		return fmt.Sprintf("Add %d more item(s)", MinItems-n)
	case n > MaxItems:
		return fmt.Sprintf("Remove %d item(s)", n-MaxItems)
	default:
		return ""
	}
}

func (s *Store) indexLocked(key domain.LineKey) int {
	return slices.IndexFunc(s.items, func(it domain.HomeTrialItem) bool {
		return it.Key() == key
	})
}

func (s *Store) persistLocked(ctx context.Context) {
	if err := storage.Persist(ctx, s.storage, s.slot, s.items); err != nil {
		s.log.Error("failed to persist home trial", zap.String("slot", s.slot), zap.Error(err))
		return
	}
	s.notifier.Notify(ctx, events.Updated{
		Type:      events.TrialUpdated,
		Slot:      s.slot,
		ItemCount: len(s.items),
		At:        time.Now(),
	})
}
