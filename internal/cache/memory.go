package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	created time.Time
}

// Memory is an in-process Store backed by a map. Safe for concurrent
// use. Entries are evicted lazily on expired reads.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(key string, ttl time.Duration) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if ttl > 0 && m.now().Sub(e.created) > ttl {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.data, true
}

func (m *Memory) Put(key string, data []byte) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data, created: m.now()}
	m.mu.Unlock()
	return nil
}
