package pentest

import (
	"time"

	"github.com/google/uuid"
)

// Severity ranks a finding
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// rank orders severities for report sorting, highest first
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Finding is a single observation from a scan
type Finding struct {
	ID       string   `json:"id"`
	Category string   `json:"category"` // headers / auth / injection
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Target   string   `json:"target"` // URL or path probed
	Evidence string   `json:"evidence,omitempty"`
}

// NewFinding assigns an ID and assembles a finding
func NewFinding(category string, severity Severity, title, detail, target string) Finding {
	return Finding{
		ID:       uuid.NewString(),
		Category: category,
		Severity: severity,
		Title:    title,
		Detail:   detail,
		Target:   target,
	}
}

// Report is the outcome of a scan run
type Report struct {
	Target     string           `json:"target"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	ProbeCount int              `json:"probe_count"`
	Findings   []Finding        `json:"findings"`
	BySeverity map[Severity]int `json:"by_severity"`
}

// HasBlocking reports whether the scan found anything at or above the given
// severity. Used for CI exit codes.
func (r *Report) HasBlocking(min Severity) bool {
	for _, f := range r.Findings {
		if f.Severity.rank() >= min.rank() {
			return true
		}
	}
	return false
}
