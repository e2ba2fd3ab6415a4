// Package metrics provides Prometheus metrics for the exam score predictor.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultNamespace       = "predictscore"
	defaultSubsystem       = "predictor"
	defaultRefreshInterval = 10 * time.Second
)

// Prediction outcomes used as label values.
const (
	OutcomeServed   = "served"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	refreshInterval  time.Duration
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Prediction path
	predictions       *prometheus.CounterVec
	predictionLatency prometheus.Histogram
	predictedScore    prometheus.Histogram
	encodeErrors      *prometheus.CounterVec
	inferenceErrors   *prometheus.CounterVec

	// Model bundle
	modelLoadDuration prometheus.Histogram
	modelLoaded       prometheus.Gauge
	featureCount      prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide recorders

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go metrics out of /metrics

func init() { //nolint:gochecknoinits // global recorders must exist before main runs
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Enabled reports whether recorders observe anything.
func (m *Manager) Enabled() bool { return m.enabled.Load() }

// RefreshInterval is how often gauges should be refreshed by callers.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.predictions = auto.NewCounterVec(
		m.counterOpts("predictions_total", "Predictions by outcome (served, rejected, failed)"),
		[]string{"outcome"},
	)
	m.predictionLatency = auto.NewHistogram(
		m.histogramOpts("prediction_latency_milliseconds", "Encode plus inference latency in milliseconds", m.histogramBuckets),
	)
	m.predictedScore = auto.NewHistogram(
		m.histogramOpts("predicted_score", "Distribution of served exam scores", prometheus.LinearBuckets(0, 10, 11)),
	)
	m.encodeErrors = auto.NewCounterVec(
		m.counterOpts("encode_errors_total", "Rejected submissions by error kind"),
		[]string{"kind"},
	)
	m.inferenceErrors = auto.NewCounterVec(
		m.counterOpts("inference_errors_total", "Model invocation failures by model"),
		[]string{"model"},
	)

	m.modelLoadDuration = auto.NewHistogram(
		m.histogramOpts("model_load_duration_milliseconds", "Time to load and verify the schema and model artifact", m.histogramBuckets),
	)
	m.modelLoaded = auto.NewGauge(m.gaugeOpts("model_loaded", "1 when a verified model bundle is serving"))
	m.featureCount = auto.NewGauge(m.gaugeOpts("feature_count", "Number of features in the serving schema"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpErrors = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP responses with status >= 400 by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordPrediction counts a prediction outcome.
func RecordPrediction(outcome string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.predictions.WithLabelValues(outcome).Inc()
}

// RecordPredictionLatency records encode plus inference latency.
func RecordPredictionLatency(d time.Duration) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.predictionLatency.Observe(float64(d.Microseconds()) / 1000)
}

// RecordPredictedScore observes a served score.
func RecordPredictedScore(score float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.predictedScore.Observe(score)
}

// RecordEncodeError counts a rejected submission by kind, e.g. "unknown_category".
func RecordEncodeError(kind string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.encodeErrors.WithLabelValues(kind).Inc()
}

// RecordInferenceError counts a failed model invocation.
func RecordInferenceError(model string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.inferenceErrors.WithLabelValues(model).Inc()
}

// RecordModelLoad records how long the bundle took to build.
func RecordModelLoad(d time.Duration) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.modelLoadDuration.Observe(float64(d.Microseconds()) / 1000)
}

// UpdateModelLoaded flips the serving gauge.
func UpdateModelLoaded(loaded bool) {
	v := 0.0
	if loaded {
		v = 1
	}
	globalManager.modelLoaded.Set(v)
}

// UpdateFeatureCount sets the serving schema width.
func UpdateFeatureCount(n int) {
	globalManager.featureCount.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// SetEnabled toggles the global recorders. Gauges are always kept current.
func SetEnabled(enabled bool) {
	globalManager.enabled.Store(enabled)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
