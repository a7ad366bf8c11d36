// Package metrics provides Prometheus metrics for the bracket service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the bracket service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Core Business Metrics - picks and derivations are what the service is for
	picksRecorded      prometheus.Counter
	picksCleared       prometheus.Counter
	derivations        prometheus.Counter
	derivationLatency  prometheus.Histogram
	tokenDecodeErrors  prometheus.Counter
	sessionsCreated    prometheus.Counter
	sessionsActive     prometheus.Gauge

	// Narrative Metrics - generation pipeline health
	narrativeRequests   prometheus.Counter
	narrativeCacheHits  prometheus.Counter
	narrativeDuplicates prometheus.Counter
	narrativeErrors     prometheus.Counter
	narrativeLatency    prometheus.Histogram
	narrativesInFlight  prometheus.Gauge
	narrativesCached    prometheus.Gauge

	// Queue Metrics - narrative job queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker Metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Upstream Metrics - collaborator API health
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	upstreamErrors   *prometheus.CounterVec

	// System Metrics - runtime health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bracketbuilder",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.picksRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "picks_recorded_total",
		Help:      "Total number of picks written to session ledgers",
	})

	m.picksCleared = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "picks_cleared_total",
		Help:      "Total number of clear-all ledger operations",
	})

	m.derivations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "region_derivations_total",
		Help:      "Total number of region bracket derivations",
	})

	m.derivationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "region_derivation_latency_milliseconds",
		Help:      "Latency of deriving a full region in milliseconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	m.tokenDecodeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pick_token_decode_errors_total",
		Help:      "Total number of malformed share tokens decoded to an empty ledger",
	})

	m.sessionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_created_total",
		Help:      "Total number of bracket sessions created",
	})

	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_active",
		Help:      "Number of live bracket sessions",
	})

	m.narrativeRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_requests_total",
		Help:      "Total number of narrative generation triggers",
	})

	m.narrativeCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_cache_hits_total",
		Help:      "Total number of narrative requests satisfied from cache",
	})

	m.narrativeDuplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_duplicate_requests_total",
		Help:      "Total number of narrative requests suppressed by the in-flight marker",
	})

	m.narrativeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_errors_total",
		Help:      "Total number of failed narrative generation calls",
	})

	m.narrativeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_latency_milliseconds",
		Help:      "Latency of narrative generation calls in milliseconds",
		Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	m.narrativesInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narratives_in_flight",
		Help:      "Number of narrative generation calls currently in flight",
	})

	m.narrativesCached = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narratives_cached",
		Help:      "Number of narrative bundles held in the cache",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_queue_size",
		Help:      "Current number of queued narrative jobs",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_queue_capacity",
		Help:      "Configured capacity of the narrative job queue",
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_queue_enqueues_total",
		Help:      "Total number of narrative jobs enqueued",
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_queue_dequeues_total",
		Help:      "Total number of narrative jobs dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_queue_enqueue_errors_total",
		Help:      "Total number of rejected narrative enqueues",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_worker_count",
		Help:      "Number of narrative workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_worker_latency_milliseconds",
		Help:      "End-to-end narrative job processing latency in milliseconds",
		Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_worker_errors_total",
		Help:      "Total number of narrative worker failures",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP error responses",
	}, []string{"endpoint", "method", "error_type"})

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream collaborator requests",
	}, []string{"endpoint", "status"})

	m.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_latency_milliseconds",
		Help:      "Upstream collaborator request latency in milliseconds",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	}, []string{"endpoint"})

	m.upstreamErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_errors_total",
		Help:      "Total number of failed upstream collaborator requests",
	}, []string{"endpoint"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current allocated heap memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100},
	})
}

// RecordPick increments the picks recorded counter.
func RecordPick() {
	globalManager.picksRecorded.Inc()
}

// RecordPicksCleared increments the clear-all counter.
func RecordPicksCleared() {
	globalManager.picksCleared.Inc()
}

// RecordDerivation increments the region derivation counter.
func RecordDerivation() {
	globalManager.derivations.Inc()
}

// RecordDerivationLatency records region derivation latency in milliseconds.
func RecordDerivationLatency(latencyMs float64) {
	globalManager.derivationLatency.Observe(latencyMs)
}

// RecordTokenDecodeError increments the malformed-token counter.
func RecordTokenDecodeError() {
	globalManager.tokenDecodeErrors.Inc()
}

// RecordSessionCreated increments the sessions created counter.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// UpdateActiveSessions sets the live session gauge.
func UpdateActiveSessions(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordNarrativeRequest increments the narrative trigger counter.
func RecordNarrativeRequest() {
	globalManager.narrativeRequests.Inc()
}

// RecordNarrativeCacheHit increments the narrative cache hit counter.
func RecordNarrativeCacheHit() {
	globalManager.narrativeCacheHits.Inc()
}

// RecordNarrativeDuplicate increments the suppressed-duplicate counter.
func RecordNarrativeDuplicate() {
	globalManager.narrativeDuplicates.Inc()
}

// RecordNarrativeError increments the narrative failure counter.
func RecordNarrativeError() {
	globalManager.narrativeErrors.Inc()
}

// RecordNarrativeLatency records narrative generation latency in milliseconds.
func RecordNarrativeLatency(latencyMs float64) {
	globalManager.narrativeLatency.Observe(latencyMs)
}

// UpdateNarrativesInFlight sets the in-flight narrative gauge.
func UpdateNarrativesInFlight(count int) {
	globalManager.narrativesInFlight.Set(float64(count))
}

// UpdateNarrativesCached sets the cached narrative gauge.
func UpdateNarrativesCached(count int) {
	globalManager.narrativesCached.Set(float64(count))
}

// UpdateQueueSize sets the narrative queue size gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the narrative queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the rejected enqueue counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the worker count gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker job latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker failure counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest increments HTTP request metrics.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError increments HTTP error metrics.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordUpstreamRequest increments the upstream request counter.
func RecordUpstreamRequest(endpoint, status string) {
	globalManager.upstreamRequests.WithLabelValues(endpoint, status).Inc()
}

// RecordUpstreamLatency records upstream request latency in milliseconds.
func RecordUpstreamLatency(endpoint string, latencyMs float64) {
	globalManager.upstreamLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordUpstreamError increments the upstream failure counter.
func RecordUpstreamError(endpoint string) {
	globalManager.upstreamErrors.WithLabelValues(endpoint).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause observation.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
