// Package metrics provides Prometheus metrics for the scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Scoring pipeline metrics.
	scoresComputed       prometheus.Counter
	creditScoresComputed prometheus.Counter
	degradedPredictions  prometheus.Counter
	spamFlagged          prometheus.Counter
	scoringErrors        prometheus.Counter
	scoringLatency       prometheus.Histogram

	// Queue metrics.
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics.
	workerCount   prometheus.Gauge
	workerErrors  prometheus.Counter
	workerLatency prometheus.Histogram

	// Repository metrics.
	repositoryShardCount    prometheus.Gauge
	repositoryProfiles      prometheus.Gauge
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking.
	errorsByComponent *prometheus.CounterVec

	// System metrics.
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gigscore",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	if !m.enabled {
		return
	}
	factory := promauto.With(m.registry)

	m.scoresComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "level_scores_total", Help: "Total level score breakdowns computed.",
	})
	m.creditScoresComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "credit_scores_total", Help: "Total credit score breakdowns computed.",
	})
	m.degradedPredictions = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "degraded_predictions_total", Help: "Predictions that fell back to the neutral raw score.",
	})
	m.spamFlagged = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "spam_flagged_total", Help: "Hybrid spam scores above the penalty threshold.",
	})
	m.scoringErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "errors_total", Help: "Catastrophic scoring failures.",
	})
	m.scoringLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "latency_ms", Help: "End-to-end pipeline latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "size", Help: "Current rescore queue depth.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "capacity", Help: "Configured rescore queue capacity.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "utilization", Help: "Queue depth over capacity.",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "enqueues_total", Help: "Jobs accepted into the rescore queue.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "dequeues_total", Help: "Jobs handed to workers.",
	})
	m.queueEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "enqueue_errors_total", Help: "Rejected enqueue attempts.",
	})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "worker",
		Name: "count", Help: "Configured rescore workers.",
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "worker",
		Name: "errors_total", Help: "Failed rescore jobs.",
	})
	m.workerLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "worker",
		Name: "latency_ms", Help: "Per-job processing latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.repositoryShardCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "repository",
		Name: "shards", Help: "Configured repository shards.",
	})
	m.repositoryProfiles = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "repository",
		Name: "profiles", Help: "Profiles currently stored.",
	})
	m.repositoryUpdateLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "repository",
		Name: "update_latency_ms", Help: "Write latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.repositoryQueryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "repository",
		Name: "query_latency_ms", Help: "Read latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "requests_total", Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "request_duration_ms", Help: "HTTP request duration in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "errors",
		Name: "by_component_total", Help: "Recovered errors by component and type.",
	}, []string{"component", "type"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system",
		Name: "memory_bytes", Help: "Allocated heap bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system",
		Name: "goroutines", Help: "Current goroutine count.",
	})
}

// Package-level helpers on the global manager. All are nil-safe so
// domain code can run under tests without metric setup.

func RecordScoreComputed() {
	if globalManager != nil && globalManager.enabled {
		globalManager.scoresComputed.Inc()
	}
}

func RecordCreditScoreComputed() {
	if globalManager != nil && globalManager.enabled {
		globalManager.creditScoresComputed.Inc()
	}
}

func RecordDegradedPrediction() {
	if globalManager != nil && globalManager.enabled {
		globalManager.degradedPredictions.Inc()
	}
}

func RecordSpamFlagged() {
	if globalManager != nil && globalManager.enabled {
		globalManager.spamFlagged.Inc()
	}
}

func RecordScoringError() {
	if globalManager != nil && globalManager.enabled {
		globalManager.scoringErrors.Inc()
	}
}

func RecordScoringLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.scoringLatency.Observe(latencyMs)
	}
}

func UpdateQueueSize(size int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

func UpdateQueueCapacity(capacity int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

func UpdateQueueUtilization(utilization float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.queueUtilization.Set(utilization)
	}
}

func RecordQueueEnqueue() {
	if globalManager != nil && globalManager.enabled {
		globalManager.queueEnqueues.Inc()
	}
}

func RecordQueueDequeue() {
	if globalManager != nil && globalManager.enabled {
		globalManager.queueDequeues.Inc()
	}
}

func RecordQueueEnqueueError() {
	if globalManager != nil && globalManager.enabled {
		globalManager.queueEnqueueErrors.Inc()
	}
}

func UpdateWorkerCount(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.workerCount.Set(float64(count))
	}
}

func RecordWorkerError() {
	if globalManager != nil && globalManager.enabled {
		globalManager.workerErrors.Inc()
	}
}

func RecordWorkerProcessingLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.workerLatency.Observe(latencyMs)
	}
}

func UpdateRepositoryShardCount(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.repositoryShardCount.Set(float64(count))
	}
}

func UpdateRepositoryProfiles(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.repositoryProfiles.Set(float64(count))
	}
}

func RecordRepositoryUpdateLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.repositoryUpdateLatency.Observe(latencyMs)
	}
}

func RecordRepositoryQueryLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.repositoryQueryLatency.Observe(latencyMs)
	}
}

func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
	}
}

func RecordErrorByComponent(component, errorType string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

func UpdateSystemGoroutineCount(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry returns the custom registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
