// Package history records, lists, and prunes past analysis runs in an
// injected durable key-value store.
package history

import "sync"

// KV is the durable store the ledger persists into: one named record
// holding a JSON-encoded array. Implementations need only single-writer
// atomicity per Set.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MemoryKV is an in-process KV store for tests and ephemeral mode.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get returns the value for key and whether it exists.
func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok
}

// Set stores value under key.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
