// Package metrics provides Prometheus metrics for the ClearPath backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus collectors for the service
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Webhook processing
	webhookDeliveries *prometheus.CounterVec
	webhookFailures   prometheus.Counter

	// Assessment scoring
	assessmentsRun    prometheus.Counter
	assessmentLatency prometheus.Histogram

	// Health monitor
	endpointHealthy      *prometheus.GaugeVec
	endpointProbeLatency *prometheus.HistogramVec
	endpointFailures     *prometheus.CounterVec
}

// package registry keeps the default Go collectors out of /metrics
var packageRegistry = prometheus.NewRegistry()

var defaultManager = NewManager()

// NewManager creates a metrics manager and registers its collectors
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "clearpath",
		subsystem:        "backend",
		histogramBuckets: prometheus.DefBuckets,
		registry:         packageRegistry,
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"route", "method"},
	)

	m.webhookDeliveries = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "webhook_deliveries_total",
			Help:      "Webhook deliveries by event type and outcome",
		},
		[]string{"event_type", "status"},
	)
	m.webhookFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "webhook_failures_total",
		Help:      "Webhook deliveries that failed processing",
	})

	m.assessmentsRun = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessments_run_total",
		Help:      "Total risk assessments computed",
	})
	m.assessmentLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessment_duration_seconds",
		Help:      "Risk assessment computation time in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.endpointHealthy = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "endpoint_healthy",
			Help:      "1 when the monitored endpoint is healthy, 0 when degraded",
		},
		[]string{"endpoint"},
	)
	m.endpointProbeLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "endpoint_probe_duration_seconds",
			Help:      "Health probe round trip time in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint"},
	)
	m.endpointFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "endpoint_probe_failures_total",
			Help:      "Total failed health probes by endpoint",
		},
		[]string{"endpoint"},
	)

	return m
}

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(route, method, status string) {
	defaultManager.httpRequests.WithLabelValues(route, method, status).Inc()
}

// RecordHTTPRequestDuration records a request's handling time
func RecordHTTPRequestDuration(route, method string, seconds float64) {
	defaultManager.httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// RecordWebhookDelivery records a processed webhook delivery outcome
func RecordWebhookDelivery(eventType, status string) {
	defaultManager.webhookDeliveries.WithLabelValues(eventType, status).Inc()
}

// RecordWebhookFailure increments the webhook failure counter
func RecordWebhookFailure() {
	defaultManager.webhookFailures.Inc()
}

// RecordAssessment records one computed assessment and its duration
func RecordAssessment(seconds float64) {
	defaultManager.assessmentsRun.Inc()
	defaultManager.assessmentLatency.Observe(seconds)
}

// SetEndpointHealthy flips the health gauge for an endpoint
func SetEndpointHealthy(endpoint string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1.0
	}
	defaultManager.endpointHealthy.WithLabelValues(endpoint).Set(v)
}

// RecordProbe records a health probe round trip
func RecordProbe(endpoint string, seconds float64, ok bool) {
	defaultManager.endpointProbeLatency.WithLabelValues(endpoint).Observe(seconds)
	if !ok {
		defaultManager.endpointFailures.WithLabelValues(endpoint).Inc()
	}
}

// Registry returns the package registry for the /metrics handler
func Registry() *prometheus.Registry {
	return packageRegistry
}
