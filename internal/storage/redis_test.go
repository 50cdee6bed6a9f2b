package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T, retention time.Duration) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client, retention)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestRedisStore_Load_Success(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t, 0)
	defer cleanup()

	require.NoError(t, mr.Set(slotKey("ecommerce-cart:1"), `[{"product_id":"p1"}]`))

	data, err := store.Load(context.Background(), "ecommerce-cart:1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"product_id":"p1"}]`, string(data))
}

func TestRedisStore_Load_Missing(t *testing.T) {
	store, _, cleanup := setupTestRedis(t, 0)
	defer cleanup()

	data, err := store.Load(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrSlotEmpty)
	assert.Nil(t, data)
}

func TestRedisStore_Save_Success(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t, 0)
	defer cleanup()

	err := store.Save(context.Background(), TrialSlot, []byte(`[]`))
	require.NoError(t, err)

	stored, err := mr.Get(slotKey(TrialSlot))
	require.NoError(t, err)
	assert.Equal(t, `[]`, stored)
	assert.Equal(t, time.Duration(0), mr.TTL(slotKey(TrialSlot)))
}

func TestRedisStore_Save_WithRetention(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t, 24*time.Hour)
	defer cleanup()

	err := store.Save(context.Background(), CartSlot, []byte(`[]`))
	require.NoError(t, err)

	ttl := mr.TTL(slotKey(CartSlot))
	assert.True(t, ttl >= 24*time.Hour, "TTL should be at least the retention")
	assert.True(t, ttl < 25*time.Hour, "TTL should be retention + max jitter")
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t, 0)
	defer cleanup()
	mr.Close()

	_, err := store.Load(context.Background(), CartSlot)
	require.ErrorContains(t, err, "redis get failed")
	assert.NotErrorIs(t, err, ErrSlotEmpty)
}

func TestSlotKey_Format(t *testing.T) {
	assert.Equal(t, "storefront:ecommerce-cart:7", slotKey("ecommerce-cart:7"))
}
