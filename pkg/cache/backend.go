package cache

import (
	"context"
	"time"
)

// Backend is the storage half of the cache: a keyed byte store that keeps
// the creation timestamp alongside each value. Freshness decisions are made
// above it, so a backend may keep entries well past their staleness window
// (retention) to allow serve-stale-on-error.
type Backend interface {
	// Get returns the stored value and its creation time. ok is false on a
	// miss; err is reserved for backend failures.
	Get(ctx context.Context, key string) (value []byte, createdAt time.Time, ok bool, err error)

	// Set stores a value. retention is the outer bound after which the
	// backend may drop the entry entirely.
	Set(ctx context.Context, key string, value []byte, createdAt time.Time, retention time.Duration) error

	// Delete removes one entry.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every entry whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
