package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrWriteFailed is returned by MemoryStore.Set while FailWrites is enabled
var ErrWriteFailed = errors.New("storage: write failed")

// MemoryStore keeps slots in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu         sync.Mutex
	data       map[string][]byte
	failWrites bool
}

// NewMemory creates an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Set stores a copy of value under key
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrites {
		return ErrWriteFailed
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// FailWrites makes every following Set fail with ErrWriteFailed until reset
func (m *MemoryStore) FailWrites(fail bool) {
	m.mu.Lock()
	m.failWrites = fail
	m.mu.Unlock()
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
