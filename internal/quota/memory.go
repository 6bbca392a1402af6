package quota

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is an in-process Counter for tests and local development.
// Entries never expire; the TTL of the last write is kept for inspection.
type MemoryCounter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	writes  int
}

type memoryEntry struct {
	value int
	ttl   time.Duration
}

// NewMemoryCounter creates an empty in-memory counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]memoryEntry)}
}

// Get implements Counter.
func (m *MemoryCounter) Get(ctx context.Context, key string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.entries[key]
	if !exists {
		return 0, false, nil
	}
	return e.value, true, nil
}

// Set implements Counter.
func (m *MemoryCounter) Set(ctx context.Context, key string, value int, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: value, ttl: ttl}
	m.writes++
	return nil
}

// Value returns the stored value for key, if any.
func (m *MemoryCounter) Value(key string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.entries[key]
	return e.value, exists
}

// TTL returns the TTL recorded by the last write to key.
func (m *MemoryCounter) TTL(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.entries[key].ttl
}

// Writes returns the total number of Set calls.
func (m *MemoryCounter) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.writes
}
