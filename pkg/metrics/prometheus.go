// Package metrics provides Prometheus metrics for the swing scoring engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingest metrics
	rowsParsed       prometheus.Counter
	rowsSkipped      prometheus.Counter
	filesPartial     prometheus.Counter
	filesFailed      prometheus.Counter
	importsDuplicate prometheus.Counter

	// Scoring metrics
	sessionsScored      prometheus.Counter
	samplesAggregated   prometheus.Counter
	predictionsComputed prometheus.Counter
	projectionsComputed prometheus.Counter
	aggregationLatency  prometheus.Histogram

	// Operational health
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	workerCount      prometheus.Gauge
	storedReports    prometheus.Gauge
	workerErrors     prometheus.Counter

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fourb",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
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

	m.rowsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_parsed_total",
		Help:      "Total vendor CSV rows parsed into valid swing records",
	})
	m.rowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_skipped_total",
		Help:      "Total malformed vendor CSV rows skipped (partial parse warnings)",
	})
	m.filesPartial = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_partial_total",
		Help:      "Files that parsed with at least one skipped row",
	})
	m.filesFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_failed_total",
		Help:      "Files rejected with zero valid rows",
	})
	m.importsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "imports_duplicate_total",
		Help:      "Duplicate import IDs acknowledged without reprocessing",
	})

	m.sessionsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_scored_total",
		Help:      "Session stats aggregations completed",
	})
	m.samplesAggregated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "biomech_samples_aggregated_total",
		Help:      "Completed biomechanical samples folded into category scores",
	})
	m.predictionsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ball_flight_predictions_total",
		Help:      "Ball flight predictions computed on demand",
	})
	m.projectionsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ceiling_projections_total",
		Help:      "Single-swing ceiling projections computed",
	})
	m.aggregationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_latency_milliseconds",
		Help:      "Histogram of parse-and-aggregate latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the import job queue",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the import job queue",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization",
		Help:      "Import queue utilization ratio 0-1",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of running import workers",
	})
	m.storedReports = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_reports",
		Help:      "Session reports currently held in the store",
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Import jobs that failed in a worker",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordRowsParsed adds n to the parsed-rows counter.
func RecordRowsParsed(n int) {
	globalManager.rowsParsed.Add(float64(n))
}

// RecordRowsSkipped adds n to the skipped-rows counter.
func RecordRowsSkipped(n int) {
	globalManager.rowsSkipped.Add(float64(n))
}

// RecordFilePartial increments the partial-file counter.
func RecordFilePartial() {
	globalManager.filesPartial.Inc()
}

// RecordFileFailed increments the failed-file counter.
func RecordFileFailed() {
	globalManager.filesFailed.Inc()
}

// RecordImportDuplicate increments the duplicate-import counter.
func RecordImportDuplicate() {
	globalManager.importsDuplicate.Inc()
}

// RecordSessionScored increments the sessions-scored counter.
func RecordSessionScored() {
	globalManager.sessionsScored.Inc()
}

// RecordSamplesAggregated adds n to the aggregated-samples counter.
func RecordSamplesAggregated(n int) {
	globalManager.samplesAggregated.Add(float64(n))
}

// RecordPredictionComputed increments the predictions counter.
func RecordPredictionComputed() {
	globalManager.predictionsComputed.Inc()
}

// RecordProjectionComputed increments the projections counter.
func RecordProjectionComputed() {
	globalManager.projectionsComputed.Inc()
}

// RecordAggregationLatency records parse-and-aggregate latency in milliseconds.
func RecordAggregationLatency(latencyMs float64) {
	globalManager.aggregationLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the queue size gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization gauge.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// UpdateWorkerCount sets the worker count gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateStoredReports sets the stored reports gauge.
func UpdateStoredReports(count int) {
	globalManager.storedReports.Set(float64(count))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
