// Package monitoring collects Prometheus metrics for the platform:
// HTTP traffic, per-domain operation counters, context assembly and
// vector-search cache behavior, and integration sync outcomes.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Shard metrics
	ShardsTotal     prometheus.Gauge
	ShardOperations *prometheus.CounterVec

	// Context assembly metrics
	Assemblies       prometheus.Counter
	AssemblyDuration prometheus.Histogram
	AssemblyTokens   prometheus.Histogram
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter

	// Integration metrics
	SyncRuns      *prometheus.CounterVec
	SyncDocuments prometheus.Counter

	// Audit metrics
	AuditEvents *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector on its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "castiel_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "castiel_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		ShardsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "castiel_shards_total",
			Help: "Current number of live shards",
		}),
		ShardOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "castiel_shard_operations_total",
				Help: "Shard operations by kind",
			},
			[]string{"operation"},
		),

		Assemblies: factory.NewCounter(prometheus.CounterOpts{
			Name: "castiel_context_assemblies_total",
			Help: "Total context assembly runs",
		}),
		AssemblyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "castiel_context_assembly_duration_seconds",
			Help:    "Context assembly duration in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		}),
		AssemblyTokens: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "castiel_context_assembly_tokens",
			Help:    "Tokens packed per assembled context",
			Buckets: []float64{100, 500, 1000, 2000, 4000, 8000, 16000},
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "castiel_vector_search_cache_hits_total",
			Help: "Vector search cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "castiel_vector_search_cache_misses_total",
			Help: "Vector search cache misses",
		}),

		SyncRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "castiel_integration_sync_runs_total",
				Help: "Integration sync runs by outcome",
			},
			[]string{"outcome"},
		),
		SyncDocuments: factory.NewCounter(prometheus.CounterOpts{
			Name: "castiel_integration_sync_documents_total",
			Help: "Documents produced by integration syncs",
		}),

		AuditEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "castiel_audit_events_total",
				Help: "Audit events by type",
			},
			[]string{"event_type"},
		),

		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "castiel_ws_connections",
			Help: "Active WebSocket stream connections",
		}),

		Uptime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "castiel_uptime_seconds",
			Help: "Service uptime in seconds",
		}),
	}

	m.registry = registry
	return m
}

// Gatherer exposes the backing registry for the /metrics endpoint.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// RecordHTTPRequest records one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAssembly records a completed context assembly run.
func (m *Metrics) RecordAssembly(duration time.Duration, tokens int) {
	m.Assemblies.Inc()
	m.AssemblyDuration.Observe(duration.Seconds())
	m.AssemblyTokens.Observe(float64(tokens))
}

// RecordSyncRun records an integration sync outcome.
func (m *Metrics) RecordSyncRun(outcome string, documents int) {
	m.SyncRuns.WithLabelValues(outcome).Inc()
	m.SyncDocuments.Add(float64(documents))
}

// TickUptime refreshes the uptime gauge.
func (m *Metrics) TickUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
