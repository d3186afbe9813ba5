package cache

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the in-process backend. Re-fetching is always
// correct, so the bound only trades memory for hit rate.
const DefaultMaxEntries = 1024

type memoryEntry struct {
	value     []byte
	createdAt time.Time
	expiresAt time.Time
}

// MemoryBackend is an in-process LRU cache backend.
type MemoryBackend struct {
	entries *lru.Cache[string, memoryEntry]
	clock   func() time.Time
}

// NewMemoryBackend creates an LRU-bounded in-process backend.
func NewMemoryBackend(maxEntries int) (*MemoryBackend, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &MemoryBackend{entries: entries, clock: time.Now}, nil
}

// Get returns the stored value and its creation time.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, time.Time, bool, error) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil, time.Time{}, false, nil
	}
	if !entry.expiresAt.IsZero() && m.clock().After(entry.expiresAt) {
		m.entries.Remove(key)
		return nil, time.Time{}, false, nil
	}
	return entry.value, entry.createdAt, true, nil
}

// Set stores a value, evicting the least recently used entry when full.
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, createdAt time.Time, retention time.Duration) error {
	entry := memoryEntry{value: value, createdAt: createdAt}
	if retention > 0 {
		entry.expiresAt = createdAt.Add(retention)
	}
	m.entries.Add(key, entry)
	return nil
}

// Delete removes one entry.
func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

// DeletePrefix removes every entry whose key starts with prefix.
func (m *MemoryBackend) DeletePrefix(_ context.Context, prefix string) error {
	for _, key := range m.entries.Keys() {
		if strings.HasPrefix(key, prefix) {
			m.entries.Remove(key)
		}
	}
	return nil
}

// Len reports the number of resident entries.
func (m *MemoryBackend) Len() int {
	return m.entries.Len()
}
