package worker

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/metrics"
	"github.com/clearpath-fin/clearpath/pkg/service/notify"
	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
	"github.com/clearpath-fin/clearpath/pkg/utils/safe"
)

const defaultFailureThreshold = 3

// HealthMonitor polls configured endpoints on an interval and alerts when
// an endpoint crosses the consecutive-failure threshold
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Endpoints are few; probes run sequentially within a cycle
type HealthMonitor struct {
	endpoints        []string
	interval         time.Duration
	failureThreshold int
	notifier         notify.Service
	client           *http.Client

	mu     sync.RWMutex
	states map[string]*endpointState

	stopCh chan struct{}
	doneCh chan struct{}
}

type endpointState struct {
	healthy             bool
	consecutiveFailures int
	lastChecked         time.Time
	lastError           string
}

// EndpointStatus is a read-only snapshot of one endpoint's state
type EndpointStatus struct {
	Endpoint            string    `json:"endpoint"`
	Healthy             bool      `json:"healthy"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastChecked         time.Time `json:"last_checked"`
	LastError           string    `json:"last_error,omitempty"`
}

// MonitorOption configures a HealthMonitor
type MonitorOption func(*HealthMonitor)

// WithFailureThreshold sets the consecutive failures required to flip an
// endpoint to degraded
func WithFailureThreshold(n int) MonitorOption {
	return func(m *HealthMonitor) {
		if n > 0 {
			m.failureThreshold = n
		}
	}
}

// WithProbeClient overrides the HTTP client used for probes
func WithProbeClient(client *http.Client) MonitorOption {
	return func(m *HealthMonitor) {
		m.client = client
	}
}

// NewHealthMonitor creates a monitor for the given endpoint URLs
func NewHealthMonitor(endpoints []string, interval time.Duration, notifier notify.Service, opts ...MonitorOption) *HealthMonitor {
	m := &HealthMonitor{
		endpoints:        endpoints,
		interval:         interval,
		failureThreshold: defaultFailureThreshold,
		notifier:         notifier,
		client:           &http.Client{Timeout: 10 * time.Second},
		states:           make(map[string]*endpointState),
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, endpoint := range endpoints {
		m.states[endpoint] = &endpointState{healthy: true}
		metrics.SetEndpointHealthy(endpoint, true)
	}
	return m
}

// Start begins the background polling loop. Does not block.
func (m *HealthMonitor) Start(ctx context.Context) error {
	logging.Default().Info("health monitor starting",
		"endpoints", len(m.endpoints),
		"interval", m.interval.String(),
	)
	go m.run(ctx)
	return nil
}

// Stop signals the monitor to stop and waits for completion
func (m *HealthMonitor) Stop() {
	logging.Default().Info("health monitor stopping")
	close(m.stopCh)
	<-m.doneCh
	logging.Default().Info("health monitor stopped")
}

func (m *HealthMonitor) run(ctx context.Context) {
	defer close(m.doneCh)

	m.checkAll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.checkAll(ctx)

		case <-m.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("health monitor context cancelled")
			return
		}
	}
}

func (m *HealthMonitor) checkAll(ctx context.Context) {
	for _, endpoint := range m.endpoints {
		m.check(ctx, endpoint)
	}
}

func (m *HealthMonitor) check(ctx context.Context, endpoint string) {
	start := time.Now()
	err := m.probe(ctx, endpoint)
	elapsed := time.Since(start)
	metrics.RecordProbe(endpoint, elapsed.Seconds(), err == nil)

	m.mu.Lock()
	state := m.states[endpoint]
	state.lastChecked = time.Now().UTC()

	if err == nil {
		state.consecutiveFailures = 0
		state.lastError = ""
		recovered := !state.healthy
		state.healthy = true
		m.mu.Unlock()

		if recovered {
			metrics.SetEndpointHealthy(endpoint, true)
			logging.From(ctx).Info("endpoint recovered", "endpoint", endpoint)
			if err := m.notifier.Alert(ctx, "endpoint recovered",
				fmt.Sprintf("`%s` is healthy again", endpoint)); err != nil {
				logging.From(ctx).Error("failed to send recovery alert", "error", err.Error())
			}
		}
		return
	}

	state.consecutiveFailures++
	state.lastError = err.Error()
	degraded := state.healthy && state.consecutiveFailures >= m.failureThreshold
	if degraded {
		state.healthy = false
	}
	failures := state.consecutiveFailures
	m.mu.Unlock()

	logging.From(ctx).Warn("health probe failed",
		"endpoint", endpoint,
		"consecutive_failures", failures,
		"error", err.Error(),
	)

	if degraded {
		metrics.SetEndpointHealthy(endpoint, false)
		if err := m.notifier.Alert(ctx, "endpoint degraded",
			fmt.Sprintf("`%s` failed %d consecutive probes: %s", endpoint, failures, err.Error())); err != nil {
			logging.From(ctx).Error("failed to send degradation alert", "error", err.Error())
		}
	}
}

func (m *HealthMonitor) probe(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Status returns a snapshot of every monitored endpoint
func (m *HealthMonitor) Status() []EndpointStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make([]EndpointStatus, 0, len(m.endpoints))
	for _, endpoint := range m.endpoints {
		state := m.states[endpoint]
		statuses = append(statuses, EndpointStatus{
			Endpoint:            endpoint,
			Healthy:             state.healthy,
			ConsecutiveFailures: state.consecutiveFailures,
			LastChecked:         state.lastChecked,
			LastError:           state.lastError,
		})
	}
	return statuses
}
