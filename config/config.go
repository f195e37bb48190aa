// Package config resolves the runtime configuration from the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/motorepair/admin/internal/cache"
	"github.com/motorepair/admin/internal/constants"
	"github.com/motorepair/admin/internal/db"
)

// Cache backends
const (
	// CacheBackendRedis stores cache entries in Redis
	CacheBackendRedis = "redis"
	// CacheBackendMemory keeps cache entries in process
	CacheBackendMemory = "memory"
)

// DatabaseConfig holds the postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// CacheConfig selects and sizes the cache store
type CacheConfig struct {
	Backend        string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	MemoryCapacity int
	CatalogTTL     time.Duration
	StatisticsTTL  time.Duration
	JobsTTL        time.Duration
}

// Config is the full runtime configuration
type Config struct {
	Database DatabaseConfig
	Cache    CacheConfig
	LogLevel string
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(constants.EnvDBHost, db.DefaultHost)
	v.SetDefault(constants.EnvDBPort, db.DefaultPort)
	v.SetDefault(constants.EnvDBUser, db.DefaultUser)
	v.SetDefault(constants.EnvDBPassword, db.DefaultPassword)
	v.SetDefault(constants.EnvDBName, db.DefaultDBName)
	v.SetDefault(constants.EnvDBSSLMode, db.DefaultSSLMode)

	v.SetDefault(constants.EnvCacheBackend, CacheBackendRedis)
	v.SetDefault(constants.EnvRedisAddr, "localhost:6379")
	v.SetDefault(constants.EnvRedisPassword, "")
	v.SetDefault(constants.EnvRedisDB, 0)
	v.SetDefault(constants.EnvCacheMemoryCapacity, cache.DefaultMemoryConfig().Capacity)
	v.SetDefault(constants.EnvCacheCatalogTTL, time.Hour)
	v.SetDefault(constants.EnvCacheStatisticsTTL, 5*time.Minute)
	v.SetDefault(constants.EnvCacheJobsTTL, time.Minute)

	v.SetDefault(constants.EnvLogLevel, "info")
}

// Load reads an optional .env file from the working directory and resolves the
// configuration from the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	SetDefaults(v)
	return LoadWithViper(v)
}

// LoadWithViper resolves the configuration from an already prepared viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     v.GetString(constants.EnvDBHost),
			Port:     v.GetInt(constants.EnvDBPort),
			User:     v.GetString(constants.EnvDBUser),
			Password: v.GetString(constants.EnvDBPassword),
			Name:     v.GetString(constants.EnvDBName),
			SSLMode:  v.GetString(constants.EnvDBSSLMode),
		},
		Cache: CacheConfig{
			Backend:        v.GetString(constants.EnvCacheBackend),
			RedisAddr:      v.GetString(constants.EnvRedisAddr),
			RedisPassword:  v.GetString(constants.EnvRedisPassword),
			RedisDB:        v.GetInt(constants.EnvRedisDB),
			MemoryCapacity: v.GetInt(constants.EnvCacheMemoryCapacity),
			CatalogTTL:     v.GetDuration(constants.EnvCacheCatalogTTL),
			StatisticsTTL:  v.GetDuration(constants.EnvCacheStatisticsTTL),
			JobsTTL:        v.GetDuration(constants.EnvCacheJobsTTL),
		},
		LogLevel: v.GetString(constants.EnvLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("%s is required when the cache backend is %s", constants.EnvRedisAddr, CacheBackendRedis)
		}
	case CacheBackendMemory:
		if c.Cache.MemoryCapacity <= 0 {
			return fmt.Errorf("%s must be positive", constants.EnvCacheMemoryCapacity)
		}
	default:
		return fmt.Errorf("unknown cache backend %q, expected %s or %s", c.Cache.Backend, CacheBackendRedis, CacheBackendMemory)
	}

	ttls := map[string]time.Duration{
		constants.EnvCacheCatalogTTL:    c.Cache.CatalogTTL,
		constants.EnvCacheStatisticsTTL: c.Cache.StatisticsTTL,
		constants.EnvCacheJobsTTL:       c.Cache.JobsTTL,
	}
	for name, ttl := range ttls {
		if ttl <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, ttl)
		}
	}

	if c.Database.Port <= 0 {
		return fmt.Errorf("%s must be positive", constants.EnvDBPort)
	}
	return nil
}

// DBOptions converts the database settings into connection options
func (c *Config) DBOptions() db.Options {
	return db.Options{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		DBName:   c.Database.Name,
		SSLMode:  c.Database.SSLMode,
	}
}

// RedisConfig converts the Redis settings for the cache package
func (c *Config) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.Cache.RedisAddr,
		Password: c.Cache.RedisPassword,
		DB:       c.Cache.RedisDB,
	}
}

// MemoryConfig converts the in-process cache settings for the cache package
func (c *Config) MemoryConfig() cache.MemoryConfig {
	cfg := cache.DefaultMemoryConfig()
	cfg.Capacity = c.Cache.MemoryCapacity
	return cfg
}
