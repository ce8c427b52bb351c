// Package cache implements the HTTP cache middleware (spec.md §4.5):
// Cache-Control parsing, Vary-aware two-tier key derivation, and a
// pluggable backing store. Grounded on the teacher's cache.CacheProvider
// contract (zoobzio-zbz/cache/service.go) for the Get/Set-with-TTL shape,
// adapted here to the two-tier Vary-record/response-entry keying spec.md
// §4.5 requires — no teacher package implements Cache-Control parsing, so
// that part is hand-written against the spec and original_source's
// test_middleware_http_cache.py for exact edge-case semantics.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the backing-store trait: Get/Set with a TTL, implemented by an
// in-memory fake for tests and a Redis-compatible adapter
// (providers/cacheredis) for production.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryStore is an in-process Store, suitable for tests and the
// non-distributed case.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if time.Now().After(e.expires) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expires: time.Now().Add(ttl)}
	return nil
}
