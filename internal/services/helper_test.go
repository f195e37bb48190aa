package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/motorepair/admin/internal/cache"
	"github.com/motorepair/admin/test"
)

// TestSetup holds the services under test on top of a test environment
type TestSetup struct {
	*test.TestEnvironment
	RepairJobService  *RepairJob
	BrandService      *Brand
	ModelService      *MotorcycleModel
	CatalogService    *ServiceCatalog
	StatisticsService *Statistics
	ctx               context.Context
}

// NewTestSetup creates real services over an in-memory database and cache
func NewTestSetup(t *testing.T, opts ...test.Option) *TestSetup {
	env := test.NewTestEnvironment(t, opts...)
	ttls := DefaultCacheTTLs()

	return &TestSetup{
		TestEnvironment:   env,
		RepairJobService:  NewRepairJobService(env.RepairJobs, env.Motorcycles, env.Services, env.Cache, ttls.Jobs, env.Now),
		BrandService:      NewBrandService(env.Brands, env.Cache, ttls.Catalog),
		ModelService:      NewMotorcycleModelService(env.Models, env.Brands, env.Cache, ttls.Catalog),
		CatalogService:    NewServiceCatalog(env.Services, env.Cache, ttls.Catalog),
		StatisticsService: NewStatisticsService(env.RepairJobs, env.Customers, env.Cache, ttls.Statistics, env.Now),
		ctx:               context.Background(),
	}
}

// CleanUp cleans up resources after test
func (ts *TestSetup) CleanUp() {
	ts.Cleanup()
}

// cached reports whether key is currently stored
func (ts *TestSetup) cached(key string) bool {
	return ts.Cache.Exists(ts.ctx, key)
}

var errCacheDown = errors.New("cache unavailable")

// unavailableStore fails every operation
type unavailableStore struct{}

var _ cache.Store = unavailableStore{}

func (unavailableStore) Get(context.Context, string) ([]byte, error) { return nil, errCacheDown }

func (unavailableStore) Set(context.Context, string, []byte, time.Duration) error {
	return errCacheDown
}

func (unavailableStore) Delete(context.Context, ...string) error { return errCacheDown }

func (unavailableStore) Keys(context.Context, string) ([]string, error) { return nil, errCacheDown }

func (unavailableStore) Exists(context.Context, string) (bool, error) { return false, errCacheDown }

func (unavailableStore) FlushAll(context.Context) error { return errCacheDown }

func (unavailableStore) Close() error { return nil }
