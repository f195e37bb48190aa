package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/motorepair/admin/internal/logger"
)

// Service is the cache-aside layer. None of its methods surface store errors: a
// failing store behaves like an empty cache and the failure is logged.
// A nil *Service is valid and caches nothing.
type Service struct {
	store Store
}

// NewService wraps store
func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) enabled() bool {
	return s != nil && s.store != nil
}

// Get decodes the value stored at key into dest and reports whether it was a hit.
// Store failures and malformed payloads are reported as misses.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.enabled() {
		return false
	}

	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return false
	}
	if err != nil {
		logger.WarnWithFields("cache get failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		logger.WarnWithFields("cache payload is malformed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	return true
}

// Set encodes value and stores it under key. A positive ttl makes the entry expire.
func (s *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !s.enabled() {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		logger.WarnWithFields("cache value cannot be encoded", map[string]interface{}{"key": key, "error": err.Error()})
		return
	}
	if ttl < 0 {
		ttl = 0
	}

	if err := s.store.Set(ctx, key, raw, ttl); err != nil {
		logger.WarnWithFields("cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// Delete removes keys, best effort
func (s *Service) Delete(ctx context.Context, keys ...string) {
	if !s.enabled() || len(keys) == 0 {
		return
	}

	if err := s.store.Delete(ctx, keys...); err != nil {
		logger.WarnWithFields("cache delete failed", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
}

// DeleteByPattern resolves the keys matching pattern and deletes them in one batch.
// A pattern matching nothing issues no delete.
func (s *Service) DeleteByPattern(ctx context.Context, pattern string) {
	if !s.enabled() {
		return
	}

	keys, err := s.store.Keys(ctx, pattern)
	if err != nil {
		logger.WarnWithFields("cache key lookup failed", map[string]interface{}{"pattern": pattern, "error": err.Error()})
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := s.store.Delete(ctx, keys...); err != nil {
		logger.WarnWithFields("cache delete by pattern failed", map[string]interface{}{"pattern": pattern, "error": err.Error()})
		return
	}
	logger.DebugWithFields("cache keys invalidated", map[string]interface{}{"pattern": pattern, "count": len(keys)})
}

// Invalidate deletes the keys of inv and every key matching its patterns
func (s *Service) Invalidate(ctx context.Context, inv Invalidation) {
	s.Delete(ctx, inv.Keys...)
	for _, pattern := range inv.Patterns {
		s.DeleteByPattern(ctx, pattern)
	}
}

// Exists reports whether key is cached; store failures report false
func (s *Service) Exists(ctx context.Context, key string) bool {
	if !s.enabled() {
		return false
	}

	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		logger.WarnWithFields("cache exists failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	return ok
}

// Flush drops every cached entry and reports whether the store accepted it
func (s *Service) Flush(ctx context.Context) bool {
	if !s.enabled() {
		return false
	}

	if err := s.store.FlushAll(ctx); err != nil {
		logger.WarnWithFields("cache flush failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	return true
}

// GetOrSet returns the cached value at key. On a miss, including any store or decode
// failure, fetch runs exactly once and its result is cached for ttl. Fetch errors are
// returned as is and nothing is cached.
func GetOrSet[T any](ctx context.Context, s *Service, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if s.Get(ctx, key, &cached) {
		return cached, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	s.Set(ctx, key, value, ttl)
	return value, nil
}
