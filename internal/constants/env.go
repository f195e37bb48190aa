// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvDBHost is the postgres host
	EnvDBHost = "DB_HOST"
	// EnvDBPort is the postgres port
	EnvDBPort = "DB_PORT"
	// EnvDBUser is the postgres user
	EnvDBUser = "DB_USER"
	// EnvDBPassword is the postgres password
	EnvDBPassword = "DB_PASSWORD"
	// EnvDBName is the postgres database name
	EnvDBName = "DB_NAME"
	// EnvDBSSLMode is the postgres sslmode
	EnvDBSSLMode = "DB_SSL_MODE"

	// EnvCacheBackend selects the cache store, "redis" or "memory"
	EnvCacheBackend = "CACHE_BACKEND"
	// EnvRedisAddr is the host:port of the Redis server
	EnvRedisAddr = "REDIS_ADDR"
	// EnvRedisPassword is the Redis password, empty for none
	EnvRedisPassword = "REDIS_PASSWORD"
	// EnvRedisDB is the Redis database number
	EnvRedisDB = "REDIS_DB"
	// EnvCacheCatalogTTL is the lifetime of cached brands, models and services
	EnvCacheCatalogTTL = "CACHE_CATALOG_TTL"
	// EnvCacheStatisticsTTL is the lifetime of the cached dashboard
	EnvCacheStatisticsTTL = "CACHE_STATISTICS_TTL"
	// EnvCacheJobsTTL is the lifetime of cached repair job listings
	EnvCacheJobsTTL = "CACHE_JOBS_TTL"
	// EnvCacheMemoryCapacity bounds the in-process cache
	EnvCacheMemoryCapacity = "CACHE_MEMORY_CAPACITY"

	// EnvLogLevel is the logrus level name
	EnvLogLevel = "LOG_LEVEL"
)
