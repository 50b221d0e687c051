package metrics

import "github.com/prometheus/client_golang/prometheus"

// Option configures a metrics Manager
type Option func(*Manager)

// WithNamespace overrides the metric namespace
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		m.namespace = namespace
	}
}

// WithSubsystem overrides the metric subsystem
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		m.subsystem = subsystem
	}
}

// WithHistogramBuckets overrides the latency histogram buckets
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry registers metrics on the given registerer instead of the
// package registry
func WithRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		m.registry = registry
	}
}
