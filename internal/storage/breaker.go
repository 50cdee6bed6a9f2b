package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Breaker stops calling a failing backend for a while so that a down Redis or
// Mongo does not stall every request. An empty slot is not a failure.
type Breaker struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]byte]
}

func NewBreaker(name string, next Store) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrSlotEmpty)
		},
	}
	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (b *Breaker) Load(ctx context.Context, slot string) ([]byte, error) {
	return b.cb.Execute(func() ([]byte, error) {
		return b.next.Load(ctx, slot)
	})
}

func (b *Breaker) Save(ctx context.Context, slot string, data []byte) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Save(ctx, slot, data)
	})
	return err
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
