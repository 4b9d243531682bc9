// Package metrics provides Prometheus metrics for the icetime evaluation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "icetime"
)

// Buckets tuned for microsecond-to-millisecond evaluation latencies.
var defaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250} //nolint:gochecknoglobals // constant bucket layout

// Batch sizes seen by the fit endpoints.
var batchSizeBuckets = prometheus.ExponentialBuckets(1, 2, 9) //nolint:gochecknoglobals // constant bucket layout

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Risk evaluation
	riskEvaluations    prometheus.Counter
	risksDetected      *prometheus.CounterVec
	comparisonsSkipped prometheus.Counter
	riskLatency        prometheus.Histogram
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheEntries       prometheus.Gauge

	// Fit scoring
	fitEvaluations  *prometheus.CounterVec
	fitBatchSize    prometheus.Histogram
	fitLatency      prometheus.Histogram
	queueSize       prometheus.Gauge
	queueRejections prometheus.Counter
	workerCount     prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
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
		namespace:        defaultNamespace,
		histogramBuckets: defaultLatencyBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)

	m.riskEvaluations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "risk_evaluations_total",
		Help: "Total number of schedule risk evaluations computed (cache misses included, hits excluded)",
	})
	m.risksDetected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "risks_detected_total",
		Help: "Schedule risks detected by type and severity",
	}, []string{"risk_type", "severity"})
	m.comparisonsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "risk_comparisons_skipped_total",
		Help: "Event comparisons skipped because of malformed event data",
	})
	m.riskLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "risk_evaluation_duration_milliseconds",
		Help:    "Time spent evaluating one schedule",
		Buckets: m.histogramBuckets,
	})
	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "risk_cache_hits_total",
		Help: "Risk evaluations served from the evaluation cache",
	})
	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "risk_cache_misses_total",
		Help: "Risk evaluations that had to be computed",
	})
	m.cacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "risk_cache_entries",
		Help: "Evaluations currently held in the cache",
	})

	m.fitEvaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "fit_evaluations_total",
		Help: "Candidate fit evaluations by candidate kind and resulting label",
	}, []string{"kind", "label"})
	m.fitBatchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "fit_batch_size",
		Help:    "Number of candidates per batch fit request",
		Buckets: batchSizeBuckets,
	})
	m.fitLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "fit_evaluation_duration_milliseconds",
		Help:    "Time spent scoring one candidate",
		Buckets: m.histogramBuckets,
	})
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "fit_queue_size",
		Help: "Fit jobs waiting for a worker",
	})
	m.queueRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "fit_queue_rejections_total",
		Help: "Fit jobs rejected because the queue was full or closed",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "worker_count",
		Help: "Fit workers running",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "errors_total",
		Help: "Errors by component and type",
	}, []string{"component", "error_type"})
}

// ms converts a duration to fractional milliseconds.
func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// RecordRiskEvaluation records one computed evaluation and its latency.
func RecordRiskEvaluation(d time.Duration) {
	globalManager.riskEvaluations.Inc()
	globalManager.riskLatency.Observe(ms(d))
}

// RecordRiskDetected counts one emitted risk.
func RecordRiskDetected(riskType, severity string) {
	globalManager.risksDetected.WithLabelValues(riskType, severity).Inc()
}

// RecordComparisonsSkipped counts skipped comparisons.
func RecordComparisonsSkipped(n int) {
	if n > 0 {
		globalManager.comparisonsSkipped.Add(float64(n))
	}
}

// RecordCacheHit counts an evaluation served from cache.
func RecordCacheHit() { globalManager.cacheHits.Inc() }

// RecordCacheMiss counts an evaluation that was computed.
func RecordCacheMiss() { globalManager.cacheMisses.Inc() }

// UpdateCacheEntries sets the current cache population.
func UpdateCacheEntries(n int) { globalManager.cacheEntries.Set(float64(n)) }

// RecordFitEvaluation counts one scored candidate and its latency.
func RecordFitEvaluation(kind, label string, d time.Duration) {
	globalManager.fitEvaluations.WithLabelValues(kind, label).Inc()
	globalManager.fitLatency.Observe(ms(d))
}

// RecordFitBatch observes the size of a batch fit request.
func RecordFitBatch(size int) { globalManager.fitBatchSize.Observe(float64(size)) }

// UpdateQueueSize sets the number of queued fit jobs.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// RecordQueueRejection counts a rejected fit job.
func RecordQueueRejection() { globalManager.queueRejections.Inc() }

// UpdateWorkerCount sets the number of running fit workers.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes HTTP handler latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError counts an error for a component.
func RecordError(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom registry that holds the service metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
