package loadtest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
	"github.com/clearpath-fin/clearpath/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Scenario describes one load test run
type Scenario struct {
	Name        string
	Method      string
	URL         string
	Body        string
	Headers     map[string]string
	Requests    int
	Concurrency int
}

func (s *Scenario) Validate() error {
	if s.URL == "" {
		return goerr.New("scenario URL is required")
	}
	if s.Requests <= 0 {
		return goerr.New("scenario request count must be positive", goerr.V("requests", s.Requests))
	}
	if s.Concurrency <= 0 {
		return goerr.New("scenario concurrency must be positive", goerr.V("concurrency", s.Concurrency))
	}
	return nil
}

// Runner executes scenarios against a live endpoint
type Runner struct {
	client           *http.Client
	progressInterval int
}

type RunnerOption func(*Runner)

// WithRunnerClient overrides the HTTP client
func WithRunnerClient(client *http.Client) RunnerOption {
	return func(r *Runner) {
		r.client = client
	}
}

// WithProgressInterval logs progress every n completed requests
func WithProgressInterval(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.progressInterval = n
		}
	}
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		client:           &http.Client{Timeout: 30 * time.Second},
		progressInterval: 100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run fires the scenario's requests with bounded concurrency and collects
// per-request latencies. A non-2xx response counts as a failure; transport
// errors do too. Only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	method := scenario.Method
	if method == "" {
		method = http.MethodGet
	}

	var success, failure, completed atomic.Int64
	latencies := make([]time.Duration, 0, scenario.Requests)
	var mu sync.Mutex

	sem := semaphore.NewWeighted(int64(scenario.Concurrency))
	eg, ctx := errgroup.WithContext(ctx)

	start := time.Now()
	for i := 0; i < scenario.Requests; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, goerr.Wrap(err, "load test canceled")
		}

		eg.Go(func() error {
			defer sem.Release(1)

			elapsed, err := r.fire(ctx, method, scenario)
			if err != nil {
				failure.Add(1)
			} else {
				success.Add(1)
			}

			mu.Lock()
			latencies = append(latencies, elapsed)
			mu.Unlock()

			if n := completed.Add(1); int(n)%r.progressInterval == 0 {
				logging.From(ctx).Info("load test progress",
					"scenario", scenario.Name,
					"completed", n,
					"total", scenario.Requests,
					"failures", failure.Load(),
				)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	total := time.Since(start)

	return buildResult(scenario, latencies, success.Load(), failure.Load(), total), nil
}

// fire issues one request and returns its latency
func (r *Runner) fire(ctx context.Context, method string, scenario *Scenario) (time.Duration, error) {
	var body io.Reader
	if scenario.Body != "" {
		body = strings.NewReader(scenario.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, scenario.URL, body)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to build request")
	}
	for k, v := range scenario.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, err
	}
	defer safe.Close(ctx, resp.Body)

	// drain so the connection can be reused
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return elapsed, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return elapsed, goerr.New("non-success status", goerr.V("status", resp.StatusCode))
	}
	return elapsed, nil
}
