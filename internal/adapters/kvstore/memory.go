package kvstore

import (
	"context"
	"slices"
	"sync"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// Memory is an in-process KeyValueStore. State is lost on exit.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get retrieves a copy of the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, domain.NewNotFoundError("key", key)
	}

	return slices.Clone(v), nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = slices.Clone(value)

	return nil
}

// Remove deletes key.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

// Name implements ports.HealthChecker.
func (m *Memory) Name() string {
	return "memory"
}

// Check implements ports.HealthChecker.
func (m *Memory) Check(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
