// Package metrics provides the centralized Prometheus registry for the
// SGP builder.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ParlaysBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sgp_builder",
		Name:      "parlays_built_total",
		Help:      "Total number of parlays built",
	})
	PropsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sgp_builder",
		Name:      "props_scored_total",
		Help:      "Total number of prop outcomes scored",
	})
	EmptySelectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sgp_builder",
		Name:      "empty_selections_total",
		Help:      "Total number of builds where no props survived filtering",
	})
	UpstreamErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgp_builder",
		Name:      "upstream_errors_total",
		Help:      "Total number of upstream provider failures",
	}, []string{"provider"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sgp_builder",
		Name:      "cache_hits_total",
		Help:      "Total number of result cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sgp_builder",
		Name:      "cache_misses_total",
		Help:      "Total number of result cache misses",
	})
)

// Gauge metrics
var (
	LastCombinedOdds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sgp_builder",
		Name:      "last_combined_odds",
		Help:      "Combined American odds of the most recently built parlay",
	})
	CachedEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sgp_builder",
		Name:      "cached_entries",
		Help:      "Number of entries currently held by the result cache",
	})
	DiscrepantPropsInPool = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sgp_builder",
		Name:      "discrepant_props_in_pool",
		Help:      "Line-discrepant props in the most recently scored pool",
	})
)

// Histogram metrics
var (
	BuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sgp_builder",
		Name:      "build_duration_seconds",
		Help:      "Duration of full parlay builds in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PoolSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sgp_builder",
		Name:      "pool_size",
		Help:      "Number of scored props entering selection",
		Buckets:   []float64{5, 10, 25, 50, 100, 200, 400},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ParlaysBuiltTotal)
		registry.MustRegister(PropsScoredTotal)
		registry.MustRegister(EmptySelectionsTotal)
		registry.MustRegister(UpstreamErrorsTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)

		registry.MustRegister(LastCombinedOdds)
		registry.MustRegister(CachedEntries)
		registry.MustRegister(DiscrepantPropsInPool)

		registry.MustRegister(BuildDuration)
		registry.MustRegister(PoolSize)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBuild records one completed parlay build.
func RecordBuild(durationSeconds float64, combinedOdds int) {
	ParlaysBuiltTotal.Inc()
	BuildDuration.Observe(durationSeconds)
	LastCombinedOdds.Set(float64(combinedOdds))
}

// RecordUpstreamError records a provider failure.
func RecordUpstreamError(provider string) {
	UpstreamErrorsTotal.WithLabelValues(provider).Inc()
}
