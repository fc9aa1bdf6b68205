// Package metrics exports pricing-engine Prometheus metrics, grounded
// on the promauto-registered vectors in wynnforthework-QCAT's
// internal/monitor package: one CounterVec per operation outcome, one
// HistogramVec for latency, labelled by method/product instead of by
// strategy/market.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the pricing-engine's exported metrics.
type Collector struct {
	pricesComputed  *prometheus.CounterVec
	pricingErrors   *prometheus.CounterVec
	pricingDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	queueDepth      prometheus.Gauge
}

// NewCollector registers and returns the metric set on reg (pass
// prometheus.DefaultRegisterer for the global registry).
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		pricesComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "optionengine",
			Name:      "prices_computed_total",
			Help:      "Total number of pricing calls completed, by method and product.",
		}, []string{"method", "product"}),

		pricingErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "optionengine",
			Name:      "pricing_errors_total",
			Help:      "Total number of pricing calls that returned an error, by method.",
		}, []string{"method"}),

		pricingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "optionengine",
			Name:      "pricing_duration_seconds",
			Help:      "Pricing call latency, by method and product.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "product"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "optionengine",
			Name:      "price_cache_hits_total",
			Help:      "Total number of price-cache lookups that hit.",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "optionengine",
			Name:      "price_cache_misses_total",
			Help:      "Total number of price-cache lookups that missed.",
		}),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "optionengine",
			Name:      "batch_queue_depth",
			Help:      "Current number of queued batch pricing jobs.",
		}),
	}
}

// ObservePricing records one completed pricing call.
func (c *Collector) ObservePricing(method, product string, seconds float64, err error) {
	if err != nil {
		c.pricingErrors.WithLabelValues(method).Inc()
		return
	}
	c.pricesComputed.WithLabelValues(method, product).Inc()
	c.pricingDuration.WithLabelValues(method, product).Observe(seconds)
}

// ObserveCacheHit records a price-cache lookup outcome.
func (c *Collector) ObserveCacheHit(hit bool) {
	if hit {
		c.cacheHits.Inc()
		return
	}
	c.cacheMisses.Inc()
}

// SetQueueDepth records the batch queue's current depth.
func (c *Collector) SetQueueDepth(depth float64) {
	c.queueDepth.Set(depth)
}
