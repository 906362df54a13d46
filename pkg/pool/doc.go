// Package pool implements the bounded interning caches used by the text and
// temporal column storages.
//
// A table column often repeats the same cell text or the same date thousands
// of times. Interning hands every storage slot the same immutable instance for
// functionally equal values, while a fixed capacity keeps the pool from
// turning into unbounded memoization.
//
// Two pools are provided:
//
//   - InternPool[T]: keyed by Go equality, least recently used entries are
//     evicted once MaxEntries is reached.
//   - OrderedPool[T]: keyed by a caller supplied comparator, so values that
//     are equal at the precision in use (for example two timestamps that
//     differ only below the displayed precision) share one instance. The
//     oldest inserted entry is evicted once the pool is full.
//
// Pooling is an optimisation only: a pool with capacity zero returns every
// value unchanged and storages behave identically, just with more memory.
//
// Usage:
//
//	texts := pool.NewInternPool[string]("text", 4096, strings.Clone)
//	s := texts.Intern(cell)
//
//	dates := pool.NewOrderedPool[time.Time]("date", 1024, compareDay)
//	d := dates.Intern(t)
//
// Pools are safe for concurrent use.
package pool
