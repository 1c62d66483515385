// Package cache provides a typed get-or-populate cache over a pluggable byte store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"propmgmt/domain/contracts"
	"propmgmt/logging"
)

// Recorder receives hit and miss notifications.
type Recorder interface {
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
}

type nopRecorder struct{}

func (nopRecorder) RecordCacheHit(string)  {}
func (nopRecorder) RecordCacheMiss(string) {}

// Cache stores JSON-encoded values with a fixed TTL. Concurrent misses on the
// same key may both call the loader; loads are idempotent reads.
type Cache struct {
	store    contracts.CacheStore
	ttl      time.Duration
	recorder Recorder
	logger   *logging.Logger
}

// New creates a cache on store. A nil recorder disables hit/miss reporting.
func New(store contracts.CacheStore, ttl time.Duration, recorder Recorder) *Cache {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Cache{
		store:    store,
		ttl:      ttl,
		recorder: recorder,
		logger:   logging.Default().WithComponent("cache"),
	}
}

// GetOrLoad returns the cached value for key or calls load and caches its result.
// Store failures are logged and fall through to load.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache read failed", "key", key, "error", err)
	}
	if found {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			c.recorder.RecordCacheHit(key)
			return v, nil
		}
		c.logger.Warn("Discarding undecodable cache entry", "key", key)
	}
	c.recorder.RecordCacheMiss(key)

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("load %s: %w", key, err)
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Cache encode failed", "key", key, "error", err)
		return v, nil
	}
	if err := c.store.Set(ctx, key, encoded, c.ttl); err != nil {
		c.logger.Warn("Cache write failed", "key", key, "error", err)
	}
	return v, nil
}

// Invalidate removes keys so the next read reloads them.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("invalidate %s: %w", key, err)
		}
	}
	return nil
}
