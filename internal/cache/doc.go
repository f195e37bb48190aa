// Package cache implements the cache-aside layer in front of the relational store.
//
// # Overview
//
// The package is split in two levels:
//
//   - Store: the raw key-value collaborator (Redis or an in-process sturdyc client).
//     Every Store method may fail.
//   - Service: the cache-aside wrapper used by the domain services. Its methods never
//     return store errors; failures are logged and degrade to a cache miss.
//
// # Basic Usage
//
//	store := cache.NewRedisStore(redisClient)
//	svc := cache.NewService(store)
//
//	brands, err := cache.GetOrSet(ctx, svc, cache.BrandsAllKey(), time.Hour,
//		func(ctx context.Context) ([]models.Brand, error) {
//			return brandRepo.List(ctx)
//		})
//
// The fetch function is the single source of truth: it runs exactly once on a miss
// (including a failed or malformed read) and never on a hit.
//
// # Keys
//
// Keys follow "<type>:<id>", "<type>:all" and "<type>:by-<parent>:<parentID>".
// See keys.go for the helpers and the invalidation sets used after mutations.
package cache
