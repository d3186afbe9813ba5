// Package cache is the tiered query cache: one Cache per browsing tier, each
// with its own freshness window, layered over a shared Backend. Reads are
// stale-while-revalidate, concurrent loads per key are deduplicated, loader
// failures are retried with bounded backoff, and an expired entry is served
// in preference to surfacing a backend error.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"framebrowse/pkg/log"
)

// Tier names one level of the browsing hierarchy.
type Tier string

const (
	TierGroups Tier = "groups"
	TierVideos Tier = "videos"
	TierFrames Tier = "frames"
)

// Window is a tier's freshness policy. An entry younger than Fresh is served
// as-is; between Fresh and Expire it is served immediately while a background
// refresh runs; past Expire a read blocks on a reload. Timeout bounds one
// loader invocation, aligned to the tier's latency budget.
type Window struct {
	Fresh   time.Duration
	Expire  time.Duration
	Timeout time.Duration
}

// DefaultWindow returns the staleness policy for a tier. The groups overview
// changes least often and lives longest; the frame tier is the most granular
// and the first to be touched by new ingest, so it lives shortest.
func DefaultWindow(tier Tier) Window {
	switch tier {
	case TierGroups:
		return Window{Fresh: 10 * time.Minute, Expire: 30 * time.Minute, Timeout: 2 * time.Second}
	case TierVideos:
		return Window{Fresh: 5 * time.Minute, Expire: 15 * time.Minute, Timeout: 3 * time.Second}
	default:
		return Window{Fresh: 2 * time.Minute, Expire: 6 * time.Minute, Timeout: 5 * time.Second}
	}
}

const (
	// maxLoadAttempts bounds loader retries before a failure surfaces.
	maxLoadAttempts = 3
	// baseBackoff is the first retry delay; it doubles per attempt.
	baseBackoff = 50 * time.Millisecond
	// retentionFactor sets how long past Expire a backend keeps an entry
	// around for serve-stale-on-error.
	retentionFactor = 3
)

// Loader produces a fresh value for a cache key.
type Loader[V any] func(ctx context.Context) (V, error)

// Retryable reports whether a loader error is worth retrying. Caller errors
// (not-found, invalid argument) must return false or the cache would retry
// requests that can never succeed.
type Retryable func(error) bool

// Cache serves one tier's query results.
type Cache[V any] struct {
	backend   Backend
	tier      Tier
	window    Window
	clock     func() time.Time
	retryable Retryable
	flight    singleflight.Group
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithClock injects a deterministic clock for tests.
func WithClock[V any](clock func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		c.clock = clock
	}
}

// WithRetryable sets the retry predicate for loader errors.
func WithRetryable[V any](retryable Retryable) Option[V] {
	return func(c *Cache[V]) {
		c.retryable = retryable
	}
}

// New creates a tier cache over a backend.
func New[V any](backend Backend, tier Tier, window Window, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		backend:   backend,
		tier:      tier,
		window:    window,
		clock:     time.Now,
		retryable: func(error) bool { return true },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache[V]) fullKey(key string) string {
	return string(c.tier) + ":" + key
}

// Get returns the cached value for key, loading it when absent or expired.
// A stale-but-present entry is returned immediately while an asynchronous
// refresh runs. When the loader fails and an expired entry is still held,
// the expired value is served instead of the error.
func (c *Cache[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	now := c.clock()

	raw, createdAt, ok, err := c.backend.Get(ctx, c.fullKey(key))
	if err != nil {
		log.Warn().Err(err).Str("tier", string(c.tier)).Str("key", key).Msg("Cache backend read failed")
		ok = false
	}

	if ok {
		age := now.Sub(createdAt)
		switch {
		case age < c.window.Fresh:
			return c.decode(raw)
		case age < c.window.Expire:
			c.refreshAsync(key, load)
			return c.decode(raw)
		}
	}

	// The blocking path gets the same latency budget as background loads.
	loadCtx, cancel := context.WithTimeout(ctx, c.window.Timeout)
	defer cancel()

	value, err := c.loadAndStore(loadCtx, key, load)
	if err != nil && ok {
		// serve-stale-on-error: the expired entry beats a user-visible failure.
		stale, decodeErr := c.decode(raw)
		if decodeErr == nil {
			log.Warn().Err(err).Str("tier", string(c.tier)).Str("key", key).
				Msg("Serving expired cache entry after load failure")
			return stale, nil
		}
	}
	return value, err
}

// Prefetch warms the cache for key without blocking. Failures are logged and
// swallowed: a prefetch is an optimization, not a user-visible operation.
func (c *Cache[V]) Prefetch(key string, load Loader[V]) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.window.Timeout)
		defer cancel()

		_, createdAt, ok, err := c.backend.Get(ctx, c.fullKey(key))
		if err == nil && ok && c.clock().Sub(createdAt) < c.window.Fresh {
			return // already warm
		}

		if _, err := c.loadAndStore(ctx, key, load); err != nil {
			log.Debug().Err(err).Str("tier", string(c.tier)).Str("key", key).Msg("Prefetch failed")
		}
	}()
}

// Invalidate drops the entry for one key.
func (c *Cache[V]) Invalidate(ctx context.Context, key string) error {
	return c.backend.Delete(ctx, c.fullKey(key))
}

// InvalidatePrefix drops every entry in this tier whose key starts with
// prefix. An empty prefix clears the whole tier.
func (c *Cache[V]) InvalidatePrefix(ctx context.Context, prefix string) error {
	return c.backend.DeletePrefix(ctx, c.fullKey(prefix))
}

func (c *Cache[V]) refreshAsync(key string, load Loader[V]) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.window.Timeout)
		defer cancel()

		if _, err := c.loadAndStore(ctx, key, load); err != nil {
			log.Warn().Err(err).Str("tier", string(c.tier)).Str("key", key).Msg("Background refresh failed")
		}
	}()
}

// loadAndStore runs the loader behind singleflight so concurrent callers for
// the same key share one fetch, retrying retryable failures with exponential
// backoff before giving up.
func (c *Cache[V]) loadAndStore(ctx context.Context, key string, load Loader[V]) (V, error) {
	result, err, _ := c.flight.Do(c.fullKey(key), func() (any, error) {
		var lastErr error
		for attempt := 0; attempt < maxLoadAttempts; attempt++ {
			if attempt > 0 {
				delay := baseBackoff << (attempt - 1)
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}

			value, err := load(ctx)
			if err == nil {
				c.store(ctx, key, value)
				return value, nil
			}
			lastErr = err
			if !c.retryable(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
		}
		return nil, lastErr
	})

	var zero V
	if err != nil {
		return zero, err
	}
	value, ok := result.(V)
	if !ok {
		return zero, fmt.Errorf("cache %s: unexpected value type %T", c.tier, result)
	}
	return value, nil
}

func (c *Cache[V]) store(ctx context.Context, key string, value V) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("tier", string(c.tier)).Str("key", key).Msg("Failed to encode cache entry")
		return
	}
	retention := c.window.Expire * retentionFactor
	if err := c.backend.Set(ctx, c.fullKey(key), data, c.clock(), retention); err != nil {
		log.Warn().Err(err).Str("tier", string(c.tier)).Str("key", key).Msg("Cache backend write failed")
	}
}

func (c *Cache[V]) decode(raw []byte) (V, error) {
	var value V
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("cache %s: corrupt entry: %w", c.tier, err)
	}
	return value, nil
}
