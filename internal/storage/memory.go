package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps slots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[slot]
	if !ok {
		return nil, ErrSlotEmpty
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.slots[slot] = stored
	return nil
}

// Put stores raw bytes under slot, bypassing the codec. Used to seed or corrupt state in tests.
func (m *MemoryStore) Put(slot string, data []byte) {
	_ = m.Save(context.Background(), slot, data)
}
