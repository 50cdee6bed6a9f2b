package storage

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisStore(client *redis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		retention: retention,
	}
}

// RedisStore keeps each slot as a JSON string. Slots expire after the retention
// period (plus jitter) unless written again; zero retention keeps them forever.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

func (r RedisStore) Load(ctx context.Context, slot string) ([]byte, error) {
	data, err := r.client.Get(ctx, slotKey(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r RedisStore) Save(ctx context.Context, slot string, data []byte) error {
	var ttl time.Duration
	if r.retention > 0 {
		jitter := time.Duration(rand.Intn(60)) * time.Minute
		ttl = r.retention + jitter
	}
	if err := r.client.Set(ctx, slotKey(slot), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func slotKey(slot string) string {
	return fmt.Sprintf("storefront:%s", slot)
}
