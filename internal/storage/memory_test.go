package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_LoadMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load(context.Background(), CartSlot)
	assert.ErrorIs(t, err, ErrSlotEmpty)
}

func TestMemoryStore_SaveCopiesData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte(`[1,2]`)
	require.NoError(t, store.Save(ctx, CartSlot, data))
	data[1] = '9'

	got, err := store.Load(ctx, CartSlot)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
}

func TestSessionSlot(t *testing.T) {
	assert.Equal(t, "ecommerce-cart:42", SessionSlot("42", CartSlot))
	assert.Equal(t, "home-trial-items", SessionSlot("", TrialSlot))
}
