package test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/gorm"

	"github.com/motorepair/admin/internal/cache"
)

// DefaultTestTimeout is the default timeout for test environments.
const DefaultTestTimeout = 30 * time.Second

// DefaultNow is the instant the environment clock starts at
var DefaultNow = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

// Option represents a configuration option for the test environment.
type Option func(*TestEnvironment)

// WithTimeout returns an option that sets the test environment timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(env *TestEnvironment) {
		if env.cancelFunc != nil {
			env.cancelFunc()
		}
		env.ctx, env.cancelFunc = context.WithTimeout(context.Background(), timeout)
	}
}

// WithDB returns an option that uses database instead of a fresh in-memory one.
// The caller owns database and must have migrated it.
func WithDB(database *gorm.DB) Option {
	return func(env *TestEnvironment) {
		env.DB = database
		env.ownsDB = false
	}
}

// WithStore returns an option that puts store behind the cache-aside service
func WithStore(store cache.Store) Option {
	return func(env *TestEnvironment) {
		env.Store = store
	}
}

// WithRedis returns an option that backs the cache with an in-process Redis server
func WithRedis() Option {
	return func(env *TestEnvironment) {
		env.Redis = miniredis.RunT(env.t)
		env.Store = cache.NewRedisStore(cache.NewRedisClient(cache.RedisConfig{Addr: env.Redis.Addr()}))
	}
}

// WithNow returns an option that starts the environment clock at now
func WithNow(now time.Time) Option {
	return func(env *TestEnvironment) {
		env.now = now
	}
}

// WithCleanupFunc returns an option that adds a cleanup function to be
// called when the environment is cleaned up.
func WithCleanupFunc(cleanup func()) Option {
	return func(env *TestEnvironment) {
		oldCleanup := env.cleanup
		env.cleanup = func() {
			if cleanup != nil {
				cleanup()
			}
			if oldCleanup != nil {
				oldCleanup()
			}
		}
	}
}
