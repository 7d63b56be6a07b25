package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Provider. Data does not survive the process.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Load implements Provider.
func (m *Memory) Load(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Save implements Provider.
func (m *Memory) Save(ctx context.Context, key string, data []byte) error {
	v := make([]byte, len(data))
	copy(v, data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = v
	return nil
}

// Put stores raw bytes under key, bypassing JSON encoding.
// Tests use it to plant malformed values.
func (m *Memory) Put(key string, raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = []byte(raw)
}

// Close implements Provider.
func (m *Memory) Close() error { return nil }
