package test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/motorepair/admin/internal/cache"
	"github.com/motorepair/admin/internal/db/repos"
)

// TestEnvironment encapsulates all components needed for integration testing.
// It provides a complete test setup with:
//   - In-memory database and every repository
//   - A cache store (in-process by default, Redis with WithRedis)
//   - A clock that only moves when told to
type TestEnvironment struct {
	t *testing.T // The testing.T instance for this environment

	// Database components
	DB          *gorm.DB
	Brands      *repos.BrandRepository
	Models      *repos.MotorcycleModelRepository
	Services    *repos.ServiceRepository
	Customers   *repos.CustomerRepository
	Motorcycles *repos.MotorcycleRepository
	RepairJobs  *repos.RepairJobRepository
	ownsDB      bool

	// Cache components
	Store cache.Store
	Cache *cache.Service
	Redis *miniredis.Miniredis

	now time.Time

	// Context management
	ctx        context.Context
	cancelFunc context.CancelFunc

	// Cleanup function
	cleanup     func()
	cleanupOnce sync.Once
}

// NewTestEnvironment creates a new test environment with the given options.
// Cleanup runs automatically at the end of the test and may also be deferred.
func NewTestEnvironment(t *testing.T, opts ...Option) *TestEnvironment {
	t.Helper()

	// Create environment with default timeout
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTestTimeout)

	env := &TestEnvironment{
		t:          t,
		ctx:        ctx,
		cancelFunc: cancel,
		ownsDB:     true,
		now:        DefaultNow,
	}

	for _, opt := range opts {
		opt(env)
	}

	if env.DB == nil {
		database, err := NewInMemoryDB()
		require.NoError(t, err, "Failed to create in-memory database")
		require.NoError(t, RunMigrations(database), "Failed to run database migrations")
		env.DB = database
	}
	if env.Store == nil {
		store, err := cache.NewMemoryStore(cache.DefaultMemoryConfig())
		require.NoError(t, err, "Failed to create memory store")
		env.Store = store
	}
	env.Cache = cache.NewService(env.Store)

	env.Brands = repos.NewBrandRepository(env.DB)
	env.Models = repos.NewMotorcycleModelRepository(env.DB)
	env.Services = repos.NewServiceRepository(env.DB)
	env.Customers = repos.NewCustomerRepository(env.DB)
	env.Motorcycles = repos.NewMotorcycleRepository(env.DB)
	env.RepairJobs = repos.NewRepairJobRepository(env.DB)

	base := env.cleanup
	env.cleanup = func() {
		if base != nil {
			base()
		}
		_ = env.Store.Close()
		if env.ownsDB {
			CloseDB(env.DB)
		}
		if env.cancelFunc != nil {
			env.cancelFunc()
		}
	}
	t.Cleanup(env.Cleanup)

	return env
}

// Context returns the environment's context, which is automatically
// canceled when the environment is cleaned up.
func (e *TestEnvironment) Context() context.Context {
	return e.ctx
}

// Cleanup tears down the test environment, releasing all resources.
// Calling it more than once is safe.
func (e *TestEnvironment) Cleanup() {
	e.cleanupOnce.Do(func() {
		if e.cleanup != nil {
			e.cleanup()
		}
	})
}

// Require returns a require.Assertions instance for this environment.
func (e *TestEnvironment) Require() *require.Assertions {
	return require.New(e.t)
}

// T returns the testing.T instance for this environment.
func (e *TestEnvironment) T() *testing.T {
	return e.t
}

// Now is the environment clock; pass env.Now wherever a clock function is expected
func (e *TestEnvironment) Now() time.Time {
	return e.now
}

// Advance moves the environment clock forward by d
func (e *TestEnvironment) Advance(d time.Duration) {
	e.now = e.now.Add(d)
}

// SetNow moves the environment clock to now
func (e *TestEnvironment) SetNow(now time.Time) {
	e.now = now
}
