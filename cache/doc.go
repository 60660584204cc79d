// Package cache provides the in-process, lock-guarded mirror of the pokemon table.
//
// # Overview
//
// Cache holds an ordered collection of pokemon.Pokemon records. It is constructed
// explicitly and passed by reference to whoever needs it; there is no package level
// instance, so tests build isolated caches:
//
//	c := cache.New()
//	_ = c.ReplaceAll(records)
//	p, ok, err := c.Find(7)
//
// # Locking
//
// One sync.Mutex guards the collection. It is taken for the in-memory operation only
// and released before returning, so callers are free to talk to the store between
// cache calls without blocking other requests. Returned records are deep copies.
//
// # Consistency
//
// The cache is not kept consistent incrementally. Writers update it optimistically
// and then a full reload from the store replaces its contents. ReplaceAllAt lets the
// reloader tag each load with a generation so a slow, older load that finishes after
// a newer one is discarded instead of rolling the cache back.
//
// # Lock Failure
//
// Go mutexes are not poisoned by panics, so the cache tracks it itself: a panic inside
// a critical section marks the cache poisoned and every later call returns a
// LockFailure error instead of serving possibly half-updated state. The process keeps
// running. The next successful full replace clears the poison.
package cache
