package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	m     sync.Mutex
	calls int
	err   error
}

func (c *countingStore) Load(context.Context, string) ([]byte, error) {
	c.m.Lock()
	defer c.m.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return nil, ErrSlotEmpty
}

func (c *countingStore) Save(context.Context, string, []byte) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.calls++
	return c.err
}

func TestBreaker_EmptySlotDoesNotTrip(t *testing.T) {
	backend := &countingStore{}
	b := NewBreaker("test", backend)

	for i := 0; i < 10; i++ {
		_, err := b.Load(context.Background(), CartSlot)
		assert.ErrorIs(t, err, ErrSlotEmpty)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, 10, backend.calls)
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	backend := &countingStore{err: errors.New("connection refused")}
	b := NewBreaker("test", backend)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.Error(t, b.Save(ctx, CartSlot, []byte(`[]`)))
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Load(ctx, CartSlot)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, backend.calls, "open breaker must not reach the backend")
}

func TestBreaker_PassesThrough(t *testing.T) {
	mem := NewMemoryStore()
	b := NewBreaker("test", mem)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, WishlistSlot, []byte(`["x"]`)))
	data, err := b.Load(ctx, WishlistSlot)
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, string(data))
}
