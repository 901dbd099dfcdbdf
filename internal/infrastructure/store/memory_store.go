package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Storage. Contents are lost on exit.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get retrieves a copy of the value stored under key
func (ms *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	value, ok := ms.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set stores a copy of value under key
func (ms *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key
func (ms *MemoryStore) Delete(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.data, key)
	return nil
}

// Keys returns the stored keys in no particular order
func (ms *MemoryStore) Keys() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	keys := make([]string, 0, len(ms.data))
	for k := range ms.data {
		keys = append(keys, k)
	}
	return keys
}
