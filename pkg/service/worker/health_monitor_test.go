package worker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/service/worker"
)

// mockNotifier is a mock implementation of notify.Service for testing
type mockNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (m *mockNotifier) Alert(ctx context.Context, title, detail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.titles = append(m.titles, title)
	return nil
}

func (m *mockNotifier) alertTitles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.titles...)
}

func TestHealthMonitor_DegradedAndRecovered(t *testing.T) {
	ctx := context.Background()

	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	notifier := &mockNotifier{}
	endpoint := srv.URL + "/healthz"
	monitor := worker.NewHealthMonitor([]string{endpoint}, time.Hour, notifier,
		worker.WithFailureThreshold(3))

	// Healthy probe keeps the endpoint green and stays quiet
	worker.CheckAll(monitor, ctx)
	if got := len(notifier.alertTitles()); got != 0 {
		t.Fatalf("expected no alerts after healthy probe, got %d", got)
	}

	statuses := monitor.Status()
	if len(statuses) != 1 {
		t.Fatalf("expected 1 endpoint status, got %d", len(statuses))
	}
	if !statuses[0].Healthy {
		t.Error("expected endpoint to be healthy after successful probe")
	}
	if statuses[0].LastChecked.IsZero() {
		t.Error("expected LastChecked to be set")
	}

	// Two consecutive failures stay under the threshold
	failing.Store(true)
	worker.CheckAll(monitor, ctx)
	worker.CheckAll(monitor, ctx)

	if got := len(notifier.alertTitles()); got != 0 {
		t.Fatalf("expected no alerts below failure threshold, got %d", got)
	}
	statuses = monitor.Status()
	if !statuses[0].Healthy {
		t.Error("expected endpoint to stay healthy below failure threshold")
	}
	if statuses[0].ConsecutiveFailures != 2 {
		t.Errorf("expected 2 consecutive failures, got %d", statuses[0].ConsecutiveFailures)
	}
	if statuses[0].LastError == "" {
		t.Error("expected LastError to be recorded for a failed probe")
	}

	// Third failure crosses the threshold and alerts exactly once
	worker.CheckAll(monitor, ctx)

	titles := notifier.alertTitles()
	if len(titles) != 1 {
		t.Fatalf("expected 1 alert at the failure threshold, got %d", len(titles))
	}
	if titles[0] != "endpoint degraded" {
		t.Errorf("expected degradation alert, got %q", titles[0])
	}
	statuses = monitor.Status()
	if statuses[0].Healthy {
		t.Error("expected endpoint to be degraded after crossing the threshold")
	}

	// Further failures do not repeat the alert
	worker.CheckAll(monitor, ctx)
	if got := len(notifier.alertTitles()); got != 1 {
		t.Fatalf("expected no repeated degradation alerts, got %d alerts", got)
	}

	// A successful probe recovers the endpoint and alerts once
	failing.Store(false)
	worker.CheckAll(monitor, ctx)

	titles = notifier.alertTitles()
	if len(titles) != 2 {
		t.Fatalf("expected a recovery alert, got %d alerts", len(titles))
	}
	if titles[1] != "endpoint recovered" {
		t.Errorf("expected recovery alert, got %q", titles[1])
	}
	statuses = monitor.Status()
	if !statuses[0].Healthy {
		t.Error("expected endpoint to be healthy after recovery")
	}
	if statuses[0].ConsecutiveFailures != 0 {
		t.Errorf("expected failure count reset on recovery, got %d", statuses[0].ConsecutiveFailures)
	}
	if statuses[0].LastError != "" {
		t.Errorf("expected LastError cleared on recovery, got %q", statuses[0].LastError)
	}
}

func TestHealthMonitor_StatusCoversAllEndpoints(t *testing.T) {
	ctx := context.Background()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer healthy.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	notifier := &mockNotifier{}
	monitor := worker.NewHealthMonitor(
		[]string{healthy.URL + "/healthz", broken.URL + "/healthz"},
		time.Hour, notifier)

	worker.CheckAll(monitor, ctx)

	statuses := monitor.Status()
	if len(statuses) != 2 {
		t.Fatalf("expected 2 endpoint statuses, got %d", len(statuses))
	}
	if !statuses[0].Healthy {
		t.Error("expected first endpoint healthy")
	}
	if statuses[1].ConsecutiveFailures != 1 {
		t.Errorf("expected 1 failure on second endpoint, got %d", statuses[1].ConsecutiveFailures)
	}
}

func TestHealthMonitor_StartStopsCleanly(t *testing.T) {
	ctx := context.Background()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	notifier := &mockNotifier{}
	monitor := worker.NewHealthMonitor([]string{srv.URL + "/healthz"}, 20*time.Millisecond, notifier)

	if err := monitor.Start(ctx); err != nil {
		t.Fatalf("failed to start monitor: %v", err)
	}

	// Wait for the initial probe plus at least one tick
	time.Sleep(70 * time.Millisecond)

	stopStart := time.Now()
	monitor.Stop()
	stopDuration := time.Since(stopStart)

	if stopDuration > time.Second {
		t.Errorf("Stop() took too long: %v", stopDuration)
	}
	if hits.Load() < 2 {
		t.Errorf("expected at least 2 probes, got %d", hits.Load())
	}
}
