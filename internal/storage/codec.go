package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Restore reads a JSON array from slot. Missing or corrupt data yields an
// empty collection and no error. When the backend itself fails the collection
// is still empty but the error is returned, so callers can tell "nothing saved"
// from "could not read what was saved".
func Restore[T any](ctx context.Context, s Store, slot string, log *zap.Logger) ([]T, error) {
	data, err := s.Load(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return []T{}, nil
		}
		log.Warn("failed to load slot", zap.String("slot", slot), zap.Error(err))
		return []T{}, fmt.Errorf("load %s failed: %w", slot, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warn("corrupt slot data, starting empty", zap.String("slot", slot), zap.Error(err))
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Persist writes items to slot as a JSON array.
func Persist[T any](ctx context.Context, s Store, slot string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", slot, err)
	}
	if err := s.Save(ctx, slot, data); err != nil {
		return fmt.Errorf("save %s failed: %w", slot, err)
	}
	return nil
}
