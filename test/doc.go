// Package test provides infrastructure and utilities for integration testing.
//
// The package provides:
//
//   - TestEnvironment: an in-memory SQLite database with every repository, a cache
//     store and a cache-aside service, plus a controllable clock
//
//   - Fixtures: helpers creating customers, motorcycles, catalog entries and repair
//     jobs in a known state
//
// Example Usage:
//
//	func TestExample(t *testing.T) {
//	    env := test.NewTestEnvironment(t, test.WithRedis())
//	    defer env.Cleanup()
//
//	    job := env.CreateRepairJob(models.RepairJobStatusPending)
//	    // exercise services against env.DB and env.Cache
//	}
package test
