// Package kvstore provides the durable key-value storage the dashboard
// widgets persist into. Each widget owns its own keys.
package kvstore

import "sync"

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set replaces the value for key.
	Set(key, value string) error
	Close() error
}

// MemoryStore is a map-backed Store. Nothing survives Close.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
	sets int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Store.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

// Writes returns how many Set calls have been made.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
