package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gobwas/glob"
	"github.com/viccon/sturdyc"
)

// MemoryConfig holds the sizing of the in-process store
type MemoryConfig struct {
	// Capacity is the maximum number of entries
	Capacity int
	// NumShards spreads entries to reduce lock contention
	NumShards int
	// MaxTTL bounds the lifetime of every entry, including entries stored without a ttl
	MaxTTL time.Duration
	// EvictionPercentage is the share of entries evicted when Capacity is reached
	EvictionPercentage int
}

// DefaultMemoryConfig returns a MemoryConfig suitable for a single admin process
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          64,
		MaxTTL:             24 * time.Hour,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid
func (c MemoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("memory cache capacity must be greater than 0")
	}
	if c.NumShards <= 0 {
		return fmt.Errorf("memory cache shards must be greater than 0")
	}
	if c.MaxTTL <= 0 {
		return fmt.Errorf("memory cache max ttl must be greater than 0")
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return fmt.Errorf("memory cache eviction percentage must be between 1 and 100")
	}
	return nil
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is an in-process Store backed by a sturdyc client. Per-entry ttls are
// enforced on read; sturdyc's own ttl acts as the upper bound.
type MemoryStore struct {
	client *sturdyc.Client[memoryEntry]
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-process store
func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[memoryEntry](cfg.Capacity, cfg.NumShards, cfg.MaxTTL, cfg.EvictionPercentage)
	return &MemoryStore{client: client, now: time.Now}, nil
}

// Get returns the value stored at key or ErrMiss
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := s.client.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if entry.expired(s.now()) {
		s.client.Delete(key)
		return nil, ErrMiss
	}
	return append([]byte(nil), entry.value...), nil
}

// Set stores a copy of value at key
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.client.Set(key, entry)
	return nil
}

// Delete removes keys
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.client.Delete(key)
	}
	return nil
}

// Keys returns the live keys matching a Redis-style glob pattern
func (s *MemoryStore) Keys(_ context.Context, pattern string) ([]string, error) {
	// no separators: * spans any character, as in Redis
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid key pattern %q: %w", pattern, err)
	}

	now := s.now()
	var keys []string
	for _, key := range s.client.ScanKeys() {
		if !matcher.Match(key) {
			continue
		}
		if entry, found := s.client.Get(key); found && !entry.expired(now) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Exists reports whether a live entry is stored at key
func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == ErrMiss {
		return false, nil
	}
	return err == nil, err
}

// FlushAll drops every entry
func (s *MemoryStore) FlushAll(_ context.Context) error {
	for _, key := range s.client.ScanKeys() {
		s.client.Delete(key)
	}
	return nil
}

// Close is a no-op for the in-process store
func (s *MemoryStore) Close() error {
	return nil
}
