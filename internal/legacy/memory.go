package legacy

import (
	"maps"
	"sync"
)

// Memory is an in-memory legacy store.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemory creates a store seeded with items. The map is copied.
func NewMemory(items map[string]string) *Memory {
	m := &Memory{items: make(map[string]string, len(items))}
	maps.Copy(m.items, items)
	return m
}

// GetItem returns the value stored under key.
func (m *Memory) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem stores value under key.
func (m *Memory) SetItem(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (m *Memory) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Items returns a copy of the stored entries.
func (m *Memory) Items() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.items)
}
