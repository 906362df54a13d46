// Package metrics provides Prometheus instrumentation for the storage engine.
// It counts the events worth watching in a long-lived table session: numeric
// rung promotions, row insertions and removals per storage kind, content
// errors recorded, reverts executed, and interning pool effectiveness.
//
// # Basic Usage
//
//	collector := metrics.NewCollector("gridstore")
//	storage.SetCollector(collector)
//
//	// Expose the registry
//	http.Handle("/metrics", promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{}))
//
// A nil *Collector is valid and records nothing, so instrumented code never
// has to check whether metrics are enabled.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Collector owns a registry and the engine's metric vectors.
type Collector struct {
	name            string
	registry        *prometheus.Registry
	rungPromotions  *prometheus.CounterVec // from, to
	rowsMutated     *prometheus.CounterVec // kind, op
	contentErrors   *prometheus.CounterVec // kind
	revertsExecuted *prometheus.CounterVec // kind
	poolLookups     *prometheus.CounterVec // pool, result
	poolSize        *prometheus.GaugeVec   // pool
	startTime       time.Time
	mu              sync.RWMutex
}

// NewCollector creates a collector registering into its own registry under
// the given namespace.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		name:     namespace,
		registry: reg,
		rungPromotions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "numeric_rung_promotions_total",
			Help:      "Numeric storage representation widenings",
		}, []string{"from", "to"}),
		rowsMutated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_mutated_total",
			Help:      "Rows appended, inserted or removed",
		}, []string{"kind", "op"}),
		contentErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_errors_total",
			Help:      "Cell errors recorded in error overlays",
		}, []string{"kind"}),
		revertsExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reverts_total",
			Help:      "Revert closures executed",
		}, []string{"kind"}),
		poolLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intern_pool_lookups_total",
			Help:      "Interning pool lookups by result (hit, miss, evict)",
		}, []string{"pool", "result"}),
		poolSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "intern_pool_entries",
			Help:      "Entries currently held by an interning pool",
		}, []string{"pool"}),
		startTime: time.Now(),
	}
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Name returns the collector namespace.
func (c *Collector) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// RungPromotion records a numeric representation widening.
func (c *Collector) RungPromotion(from, to string) {
	if c == nil {
		return
	}
	c.rungPromotions.WithLabelValues(from, to).Inc()
}

// RowsMutated records n rows appended, inserted or removed by a storage kind.
func (c *Collector) RowsMutated(kind, op string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.rowsMutated.WithLabelValues(kind, op).Add(float64(n))
}

// ContentError records a cell error.
func (c *Collector) ContentError(kind string) {
	if c == nil {
		return
	}
	c.contentErrors.WithLabelValues(kind).Inc()
}

// Revert records an executed revert closure.
func (c *Collector) Revert(kind string) {
	if c == nil {
		return
	}
	c.revertsExecuted.WithLabelValues(kind).Inc()
}

// PoolLookup records an interning pool lookup result.
func (c *Collector) PoolLookup(pool, result string) {
	if c == nil {
		return
	}
	c.poolLookups.WithLabelValues(pool, result).Inc()
}

// PoolSize records the current number of entries in a pool.
func (c *Collector) PoolSize(pool string, n int) {
	if c == nil {
		return
	}
	c.poolSize.WithLabelValues(pool).Set(float64(n))
}

// GetAll returns a snapshot of every counter keyed by metric name and labels.
func (c *Collector) GetAll() map[string]float64 {
	out := make(map[string]float64)
	if c == nil {
		return out
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	families, err := c.registry.Gather()
	if err != nil {
		return out
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "|" + lp.GetName() + "=" + lp.GetValue()
			}
			out[key] = metricValue(m)
		}
	}
	return out
}

// Uptime returns how long the collector has existed.
func (c *Collector) Uptime() time.Duration {
	if c == nil {
		return 0
	}
	return time.Since(c.startTime)
}

func metricValue(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	}
	return 0
}
