package storage

import "sync"

// MemoryStore is an in-memory Store. It backs tests and ephemeral runs
// where nothing should survive process exit.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// Ensure MemoryStore implements Store interface.
var _ Store = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns the value at key, or ErrKeyNotFound.
func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set writes value at key.
func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// Delete removes the value at key.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Backend returns the storage backend name.
func (m *MemoryStore) Backend() string { return "memory" }

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
