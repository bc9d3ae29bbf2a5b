package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Backend is the durable key/value port the store is persisted through.
// Read returns ErrNotExist for keys that were never written.
type Backend interface {
	Name() string
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// OpenBackend builds the backend selected by cfg.
func OpenBackend(ctx context.Context, cfg Config) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendDiskv:
		return NewDiskvBackend(cfg.DataDir)
	case BackendSQLite:
		return OpenSQLiteBackend(ctx, cfg.SQLitePath())
	case BackendRedis:
		return OpenRedisBackend(ctx, cfg.RedisURL)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q (expected diskv|sqlite|redis|memory)", cfg.Backend)
	}
}

// MemoryBackend keeps values in process memory. Tests use it as the in-memory fake.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string][]byte

	// FailWrites makes every Write return this error when set.
	FailWrites error
	writes     int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: map[string][]byte{}}
}

func (m *MemoryBackend) Name() string { return BackendMemory }

func (m *MemoryBackend) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotExist
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Write(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.values[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// Writes returns how many successful writes happened.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryBackend) SetFailWrites(err error) {
	m.mu.Lock()
	m.FailWrites = err
	m.mu.Unlock()
}

func (m *MemoryBackend) Close() error { return nil }
