package kvstore

import (
	"context"
	"sync"
)

// Memory is the in-process Store used for tests and for running without
// an external backing service.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]byte)}
}

func (m *Memory) GetCollection(_ context.Context, name string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.collections[name]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(payload))
	copy(copied, payload)
	return copied, true, nil
}

func (m *Memory) SetCollection(_ context.Context, name string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(payload))
	copy(copied, payload)
	m.collections[name] = copied
	return nil
}

func (m *Memory) Close() error { return nil }
