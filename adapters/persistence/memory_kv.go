package persistence

import (
	"context"
	"sync"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
)

type memoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKeyValueStore keeps values in process memory. Nothing survives a restart.
func NewMemoryKeyValueStore() service.KeyValueStore {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
