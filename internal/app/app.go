// Package app wires the repositories, cache and services of the repair shop
package app

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/motorepair/admin/config"
	"github.com/motorepair/admin/internal/cache"
	"github.com/motorepair/admin/internal/db"
	"github.com/motorepair/admin/internal/db/repos"
	"github.com/motorepair/admin/internal/events"
	"github.com/motorepair/admin/internal/logger"
	"github.com/motorepair/admin/internal/services"
)

// redisPingTimeout bounds the startup connectivity check
const redisPingTimeout = 5 * time.Second

// App holds the wired services
type App struct {
	DB     *gorm.DB
	Store  cache.Store
	Cache  *cache.Service
	Events *events.Bus

	RepairJobs *services.RepairJob
	Brands     *services.Brand
	Models     *services.MotorcycleModel
	Catalog    *services.ServiceCatalog
	Statistics *services.Statistics

	stopEvents context.CancelFunc
}

// New connects to postgres and the configured cache store and wires every service
func New(cfg *config.Config) (*App, error) {
	logger.InitializeAndConfigure(cfg.LogLevel)

	database, err := db.New(cfg.DBOptions())
	if err != nil {
		return nil, err
	}

	store, err := NewStore(cfg)
	if err != nil {
		closeDB(database)
		return nil, err
	}

	ttls := services.CacheTTLs{
		Catalog:    cfg.Cache.CatalogTTL,
		Statistics: cfg.Cache.StatisticsTTL,
		Jobs:       cfg.Cache.JobsTTL,
	}
	return NewWithDB(database, store, ttls, time.Now), nil
}

// NewStore opens the cache store selected by cfg. An unreachable Redis is logged
// and kept, since every cache failure degrades to a miss.
func NewStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		store, err := cache.NewMemoryStore(cfg.MemoryConfig())
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CacheBackendRedis:
		client := cache.NewRedisClient(cfg.RedisConfig())
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.WarnWithFields("redis unreachable, serving without cache until it recovers", map[string]interface{}{
				"addr":  cfg.Cache.RedisAddr,
				"error": err.Error(),
			})
		}
		return cache.NewRedisStore(client), nil
	default:
		return nil, errors.New("unknown cache backend: " + cfg.Cache.Backend)
	}
}

// NewWithDB wires the services over an open database and cache store. Job events
// are written to the log until Close is called.
func NewWithDB(database *gorm.DB, store cache.Store, ttls services.CacheTTLs, clock services.Clock) *App {
	cacheService := cache.NewService(store)

	bus := events.NewBus(events.EventChannelSize)
	for _, eventType := range []events.EventType{
		events.EventRepairJobCreated,
		events.EventRepairJobStatusChanged,
		events.EventRepairJobDeleted,
	} {
		bus.Subscribe(eventType, events.LogHandler)
	}
	ctx, stopEvents := context.WithCancel(context.Background())
	bus.Start(ctx)

	brands := repos.NewBrandRepository(database)
	models := repos.NewMotorcycleModelRepository(database)
	catalog := repos.NewServiceRepository(database)
	customers := repos.NewCustomerRepository(database)
	motorcycles := repos.NewMotorcycleRepository(database)
	jobs := repos.NewRepairJobRepository(database)

	return &App{
		DB:         database,
		Store:      store,
		Cache:      cacheService,
		Events:     bus,
		RepairJobs: services.NewRepairJobService(jobs, motorcycles, catalog, cacheService, ttls.Jobs, clock).WithEvents(bus),
		Brands:     services.NewBrandService(brands, cacheService, ttls.Catalog),
		Models:     services.NewMotorcycleModelService(models, brands, cacheService, ttls.Catalog),
		Catalog:    services.NewServiceCatalog(catalog, cacheService, ttls.Catalog),
		Statistics: services.NewStatisticsService(jobs, customers, cacheService, ttls.Statistics, clock),
		stopEvents: stopEvents,
	}
}

// Close delivers pending job events, then releases the cache store and the
// database connection
func (a *App) Close() error {
	a.Events.Stop()
	if a.stopEvents != nil {
		a.stopEvents()
	}

	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

func closeDB(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
