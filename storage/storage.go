// Package storage provides the durable key-value store behind the session:
// a handful of string entries that must survive process restarts.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/labconsole/config"
)

// Storage is a durable string key-value store.
type Storage interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes the given keys. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
	Close() error
}

// New opens the backend selected by cfg.
func New(ctx context.Context, cfg *config.SessionConfig) (Storage, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileStorage(cfg.Dir)
	case config.BackendRedis:
		return NewRedisStorage(ctx, cfg.Redis)
	case config.BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

// MemoryStorage keeps entries in process memory. The session does not survive
// a restart; used by tests and by SESSION_BACKEND=memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemoryStorage) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *MemoryStorage) Close() error { return nil }
