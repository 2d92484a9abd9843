// Package cache provides the Redis-backed crack result cache. Results are
// keyed by a hash of the normalized ciphertext, so identical submissions
// never pay for the pipeline twice while the entry lives. A circuit breaker
// keeps a misbehaving Redis from slowing every crack down, and singleflight
// collapses concurrent requests for the same ciphertext into one
// computation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cipherworks/cipher-analysis-platform/internal/vigenere"
	"github.com/cipherworks/cipher-analysis-platform/pkg/config"
	pkgredis "github.com/cipherworks/cipher-analysis-platform/pkg/redis"
	"github.com/cipherworks/cipher-analysis-platform/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "crack:"

type ResultCache struct {
	client  *pkgredis.Client
	cfg     config.RedisConfig
	breaker *resilience.CircuitBreaker
	group   singleflight.Group
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(client *pkgredis.Client, cfg config.RedisConfig) *ResultCache {
	return &ResultCache{
		client:  client,
		cfg:     cfg,
		breaker: resilience.NewCircuitBreaker("result-cache", resilience.CircuitBreakerConfig{}),
		logger:  slog.Default().With("component", "result-cache"),
	}
}

// Get returns the cached result for the normalized ciphertext, if any. Every
// failure mode (missing key, open breaker, decode error) counts as a miss.
func (c *ResultCache) Get(ctx context.Context, normalized string) (*vigenere.Result, bool) {
	key := c.buildKey(normalized)

	var data string
	err := c.breaker.Execute(func() error {
		var getErr error
		data, getErr = c.client.Get(ctx, key)
		if pkgredis.IsNilError(getErr) {
			// A missing key is not a backend failure; don't trip the breaker.
			data = ""
			return nil
		}
		return getErr
	})
	if err != nil || data == "" {
		if err != nil {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}

	var result vigenere.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "key", key)
	return &result, true
}

// Set stores a crack result under the ciphertext's key with the configured
// TTL. Failures are logged, never propagated: the result is already in hand.
func (c *ResultCache) Set(ctx context.Context, normalized string, result *vigenere.Result) {
	key := c.buildKey(normalized)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, data, c.cfg.CacheTTL)
	})
	if err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or runs computeFn exactly once for
// concurrent callers with the same ciphertext, caching its result.
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	normalized string,
	computeFn func() (*vigenere.Result, error),
) (*vigenere.Result, bool, error) {
	if result, ok := c.Get(ctx, normalized); ok {
		return result, true, nil
	}
	key := c.buildKey(normalized)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, normalized); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, normalized, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*vigenere.Result), false, nil
}

// Invalidate removes every cached crack result.
func (c *ResultCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating result cache: %w", err)
	}
	c.logger.Info("result cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the lifetime hit and miss counts.
func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *ResultCache) buildKey(normalized string) string {
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
