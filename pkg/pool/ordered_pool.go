package pool

import (
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/ajitpratap0/gridstore/pkg/metrics"
)

// OrderedPool interns values whose equality is defined by a comparator rather
// than by Go's ==. Entries are evicted oldest first once the pool is full.
type OrderedPool[T any] struct {
	mu        sync.Mutex
	name      string
	tree      *treemap.Map
	order     *linkedlistqueue.Queue
	maxSize   int
	stats     Stats
	collector *metrics.Collector
}

// NewOrderedPool creates a pool holding at most maxEntries values ordered by
// compare. A maxEntries of zero or less disables interning.
func NewOrderedPool[T any](name string, maxEntries int, compare func(a, b T) int) *OrderedPool[T] {
	return &OrderedPool[T]{
		name: name,
		tree: treemap.NewWith(func(a, b interface{}) int {
			return compare(a.(T), b.(T))
		}),
		order:   linkedlistqueue.New(),
		maxSize: maxEntries,
	}
}

// SetCollector attaches a metrics collector.
func (p *OrderedPool[T]) SetCollector(c *metrics.Collector) {
	p.mu.Lock()
	p.collector = c
	p.mu.Unlock()
}

// Intern returns the pooled instance comparing equal to v, adding v if absent.
func (p *OrderedPool[T]) Intern(v T) T {
	if p == nil || p.maxSize <= 0 {
		return v
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if got, found := p.tree.Get(v); found {
		p.stats.Hits++
		p.collector.PoolLookup(p.name, "hit")
		return got.(T)
	}

	for p.tree.Size() >= p.maxSize {
		oldest, ok := p.order.Dequeue()
		if !ok {
			break
		}
		p.tree.Remove(oldest)
		p.stats.Evictions++
		p.collector.PoolLookup(p.name, "evict")
	}

	p.tree.Put(v, v)
	p.order.Enqueue(v)
	p.stats.Misses++
	p.collector.PoolLookup(p.name, "miss")
	p.collector.PoolSize(p.name, p.tree.Size())
	return v
}

// Len returns the number of pooled values.
func (p *OrderedPool[T]) Len() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree.Size()
}

// Stats returns pool statistics
func (p *OrderedPool[T]) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.Size = p.tree.Size()
	return s
}

// Values returns the pooled values in comparator order.
func (p *OrderedPool[T]) Values() []T {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := p.tree.Keys()
	out := make([]T, len(keys))
	for i, k := range keys {
		out[i] = k.(T)
	}
	return out
}
