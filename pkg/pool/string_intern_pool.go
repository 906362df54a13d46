package pool

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/ajitpratap0/gridstore/pkg/metrics"
)

// Stats reports pool effectiveness.
type Stats struct {
	Size      int
	Hits      int64
	Misses    int64
	Evictions int64
}

// InternPool hands out one shared instance per distinct value, bounded by an
// LRU policy.
type InternPool[T comparable] struct {
	mu        sync.Mutex
	name      string
	cache     *lru.Cache
	clone     func(T) T
	maxSize   int
	stats     Stats
	collector *metrics.Collector
}

// NewInternPool creates a pool holding at most maxEntries values. clone, when
// not nil, is applied to a value before it is first stored so that the pool
// never retains memory owned by the caller. A maxEntries of zero or less
// disables interning.
func NewInternPool[T comparable](name string, maxEntries int, clone func(T) T) *InternPool[T] {
	p := &InternPool[T]{
		name:    name,
		clone:   clone,
		maxSize: maxEntries,
	}
	if maxEntries > 0 {
		p.cache = lru.New(maxEntries)
		p.cache.OnEvicted = func(lru.Key, interface{}) {
			p.stats.Evictions++
			p.collector.PoolLookup(p.name, "evict")
		}
	}
	return p
}

// SetCollector attaches a metrics collector.
func (p *InternPool[T]) SetCollector(c *metrics.Collector) {
	p.mu.Lock()
	p.collector = c
	p.mu.Unlock()
}

// Intern returns the pooled instance equal to v, adding v if absent.
func (p *InternPool[T]) Intern(v T) T {
	if p == nil || p.cache == nil {
		return v
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if got, ok := p.cache.Get(v); ok {
		p.stats.Hits++
		p.collector.PoolLookup(p.name, "hit")
		return got.(T)
	}

	if p.clone != nil {
		v = p.clone(v)
	}
	p.cache.Add(v, v)
	p.stats.Misses++
	p.collector.PoolLookup(p.name, "miss")
	p.collector.PoolSize(p.name, p.cache.Len())
	return v
}

// Len returns the number of pooled values.
func (p *InternPool[T]) Len() int {
	if p == nil || p.cache == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.Len()
}

// Stats returns intern pool statistics
func (p *InternPool[T]) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	if p.cache != nil {
		s.Size = p.cache.Len()
	}
	return s
}

// Clear empties the pool and resets statistics
func (p *InternPool[T]) Clear() {
	if p == nil || p.cache == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.OnEvicted = nil
	p.cache.Clear()
	p.cache = lru.New(p.maxSize)
	p.cache.OnEvicted = func(lru.Key, interface{}) {
		p.stats.Evictions++
		p.collector.PoolLookup(p.name, "evict")
	}
	p.stats = Stats{}
}
