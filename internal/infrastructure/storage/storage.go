// Package storage provides the key/value backends that hold serialized
// snapshots (cart contents, user profiles).
package storage

import (
	"context"
	"sync"
)

// Store is a flat string key/value store. Writes overwrite; there is no
// versioning or multi-key transaction.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Available reports whether the backend can currently accept writes.
	Available() bool
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-process store
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get retrieves a value by key
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores a value, replacing any previous one
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete removes a key
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Available always reports true
func (m *Memory) Available() bool {
	return true
}
