// Package observability provides Prometheus instrumentation for the
// retrieval engine.
package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Global metrics instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry       *prometheus.Registry
	cacheStatsOnce sync.Once

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Retrieval metrics
	ContextSwitches    prometheus.Counter
	ScoresComputed     prometheus.Counter
	SubgraphsExtracted prometheus.Counter
	PathSearches       prometheus.Counter
	TaskQueries        prometheus.Counter

	// Security metrics
	AccessDenied prometheus.Counter
	AuditEntries prometheus.Counter
}

// CacheStatsFunc reports the current relevance cache counters.
type CacheStatsFunc func() (hits, misses float64)

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	// Use singleton pattern to avoid duplicate registration in tests
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	contextSwitches := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_switches_total",
			Help:      "Total number of context replacements",
		},
	)

	scoresComputed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relevance_scores_total",
			Help:      "Total number of relevance scores computed",
		},
	)

	subgraphsExtracted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subgraphs_extracted_total",
			Help:      "Total number of context subgraph extractions",
		},
	)

	pathSearches := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "path_searches_total",
			Help:      "Total number of context path searches",
		},
	)

	taskQueries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_queries_total",
			Help:      "Total number of task-relevance queries",
		},
	)

	accessDenied := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Total number of denied access checks",
		},
	)

	auditEntries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_entries_total",
			Help:      "Total number of audit log entries recorded",
		},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		contextSwitches,
		scoresComputed,
		subgraphsExtracted,
		pathSearches,
		taskQueries,
		accessDenied,
		auditEntries,
	)

	globalCollector = &Collector{
		registry:           registry,
		HTTPRequests:       httpRequests,
		HTTPDuration:       httpDuration,
		ContextSwitches:    contextSwitches,
		ScoresComputed:     scoresComputed,
		SubgraphsExtracted: subgraphsExtracted,
		PathSearches:       pathSearches,
		TaskQueries:        taskQueries,
		AccessDenied:       accessDenied,
		AuditEntries:       auditEntries,
	}

	return globalCollector
}

// RegisterCacheStats exposes relevance cache hit/miss counters as gauges.
// Repeat calls are no-ops so injectors sharing the singleton stay safe.
func (c *Collector) RegisterCacheStats(namespace string, stats CacheStatsFunc) {
	c.cacheStatsOnce.Do(func() {
		c.registerCacheStats(namespace, stats)
	})
}

func (c *Collector) registerCacheStats(namespace string, stats CacheStatsFunc) {
	c.registry.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "relevance_cache_hits",
				Help:      "Relevance cache hits since startup",
			},
			func() float64 {
				hits, _ := stats()
				return hits
			},
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "relevance_cache_misses",
				Help:      "Relevance cache misses since startup",
			},
			func() float64 {
				_, misses := stats()
				return misses
			},
		),
	)
}

// Handler returns an HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ResetForTesting resets the global collector for testing purposes
func ResetForTesting() {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()
	globalCollector = nil
}
