package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisScanCount is the batch size for SCAN-based prefix deletion.
const redisScanCount = 200

type redisEnvelope struct {
	CreatedAt time.Time       `json:"created_at"`
	Value     json.RawMessage `json:"value"`
}

// RedisBackend stores cache entries in Redis, for deployments that share one
// browse cache across several server replicas.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend wraps a Redis client as a cache backend. All keys are
// namespaced under the given prefix.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "framebrowse"
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) fullKey(key string) string {
	return r.prefix + ":" + key
}

// Get returns the stored value and its creation time.
func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, time.Time, bool, error) {
	data, err := r.client.Get(ctx, r.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var envelope redisEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		// Treat undecodable entries as misses; the next Set overwrites them.
		return nil, time.Time{}, false, nil
	}
	return envelope.Value, envelope.CreatedAt, true, nil
}

// Set stores a value with retention as the Redis TTL.
func (r *RedisBackend) Set(ctx context.Context, key string, value []byte, createdAt time.Time, retention time.Duration) error {
	data, err := json.Marshal(redisEnvelope{CreatedAt: createdAt, Value: value})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := r.client.Set(ctx, r.fullKey(key), data, retention).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes one entry.
func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// DeletePrefix removes every entry whose key starts with prefix, using SCAN
// so large namespaces never block Redis.
func (r *RedisBackend) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := r.fullKey(prefix) + "*"
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, redisScanCount).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(batch) > 0 {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del failed: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
