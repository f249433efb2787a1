// Package cache provides a best-effort result cache for analysis operations.
// Cache failures degrade to uncached operation and are never surfaced.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "ignitrack:analysis:"

// ResultCache caches serialized analysis results with a TTL
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a new result cache. A nil client yields a disabled cache.
func New(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ResultCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{client: client, ttl: ttl, logger: logger}
}

// Enabled reports whether the cache has a backing client
func (c *ResultCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key builds a cache key from an operation name and its parameters
func Key(operation string, params ...string) string {
	digest := sha256.Sum256([]byte(strings.Join(params, "\x00")))
	return keyPrefix + operation + ":" + hex.EncodeToString(digest[:16])
}

// Get returns a cached result, or false when absent or unreadable
func (c *ResultCache) Get(ctx context.Context, key string) (map[string]any, bool) {
	if !c.Enabled() {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Debug("Cache entry is not valid JSON", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return result, true
}

// Set stores a result under the configured TTL
func (c *ResultCache) Set(ctx context.Context, key string, result map[string]any) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Debug("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
