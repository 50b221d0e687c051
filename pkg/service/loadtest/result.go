package loadtest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
)

// Result aggregates a completed run. Latencies are reported in milliseconds.
type Result struct {
	Scenario    string  `json:"scenario"`
	Requests    int     `json:"requests"`
	Concurrency int     `json:"concurrency"`
	Success     int64   `json:"success"`
	Failure     int64   `json:"failure"`
	SuccessRate float64 `json:"success_rate"`
	DurationSec float64 `json:"duration_sec"`
	RPS         float64 `json:"rps"`

	MeanMs float64 `json:"mean_ms"`
	MinMs  float64 `json:"min_ms"`
	MaxMs  float64 `json:"max_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P90Ms  float64 `json:"p90_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

func buildResult(scenario *Scenario, latencies []time.Duration, success, failure int64, total time.Duration) *Result {
	result := &Result{
		Scenario:    scenario.Name,
		Requests:    scenario.Requests,
		Concurrency: scenario.Concurrency,
		Success:     success,
		Failure:     failure,
		DurationSec: total.Seconds(),
	}
	if n := success + failure; n > 0 {
		result.SuccessRate = float64(success) / float64(n)
	}
	if total > 0 {
		result.RPS = float64(len(latencies)) / total.Seconds()
	}
	if len(latencies) == 0 {
		return result
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	result.MeanMs = ms(sum / time.Duration(len(sorted)))
	result.MinMs = ms(sorted[0])
	result.MaxMs = ms(sorted[len(sorted)-1])
	result.P50Ms = ms(percentile(sorted, 50))
	result.P90Ms = ms(percentile(sorted, 90))
	result.P95Ms = ms(percentile(sorted, 95))
	result.P99Ms = ms(percentile(sorted, 99))
	return result
}

// percentile is the nearest-rank percentile over an ascending-sorted slice
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p*len(sorted) + 99) / 100 // ceil(p*n/100)
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Thresholds are the pass/fail budget for a run
type Thresholds struct {
	MaxP95Ms     float64
	MaxErrorRate float64
}

// Check returns an error when the result exceeds the budget
func (r *Result) Check(t Thresholds) error {
	if t.MaxP95Ms > 0 && r.P95Ms > t.MaxP95Ms {
		return goerr.New("p95 latency over budget",
			goerr.V("p95_ms", r.P95Ms), goerr.V("budget_ms", t.MaxP95Ms))
	}
	if t.MaxErrorRate > 0 {
		errorRate := 1 - r.SuccessRate
		if errorRate > t.MaxErrorRate {
			return goerr.New("error rate over budget",
				goerr.V("error_rate", errorRate), goerr.V("budget", t.MaxErrorRate))
		}
	}
	return nil
}

// Print writes a colored terminal summary
func (r *Result) Print(w io.Writer) {
	color.New(color.Bold).Fprintf(w, "%s: %d requests, concurrency %d\n",
		r.Scenario, r.Requests, r.Concurrency)

	rateColor := color.New(color.FgGreen)
	if r.SuccessRate < 0.99 {
		rateColor = color.New(color.FgYellow)
	}
	if r.SuccessRate < 0.95 {
		rateColor = color.New(color.FgRed)
	}
	rateColor.Fprintf(w, "  success %.2f%%", r.SuccessRate*100)
	fmt.Fprintf(w, " (%d ok, %d failed) in %.1fs, %.1f req/s\n",
		r.Success, r.Failure, r.DurationSec, r.RPS)
	fmt.Fprintf(w, "  latency mean %.1fms min %.1fms max %.1fms\n", r.MeanMs, r.MinMs, r.MaxMs)
	fmt.Fprintf(w, "  p50 %.1fms  p90 %.1fms  p95 %.1fms  p99 %.1fms\n", r.P50Ms, r.P90Ms, r.P95Ms, r.P99Ms)
}

// Save writes the result as JSON
func (r *Result) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode load test result")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write load test result", goerr.V("path", path))
	}
	return nil
}
