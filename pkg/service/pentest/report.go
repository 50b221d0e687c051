package pentest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
)

var severityColors = map[Severity]*color.Color{
	SeverityCritical: color.New(color.FgRed, color.Bold),
	SeverityHigh:     color.New(color.FgRed),
	SeverityMedium:   color.New(color.FgYellow),
	SeverityLow:      color.New(color.FgCyan),
	SeverityInfo:     color.New(color.FgWhite),
}

// Print writes a colored terminal report
func (r *Report) Print(w io.Writer) {
	heading := color.New(color.Bold)
	heading.Fprintf(w, "Scan of %s\n", r.Target)
	fmt.Fprintf(w, "%d probes, %d findings, finished in %s\n\n",
		r.ProbeCount, len(r.Findings), r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))

	if len(r.Findings) == 0 {
		color.New(color.FgGreen).Fprintln(w, "no findings")
		return
	}

	for _, f := range r.Findings {
		c, ok := severityColors[f.Severity]
		if !ok {
			c = color.New()
		}
		c.Fprintf(w, "[%s]", f.Severity)
		fmt.Fprintf(w, " %s (%s)\n", f.Title, f.Category)
		fmt.Fprintf(w, "    %s\n", f.Detail)
		fmt.Fprintf(w, "    target: %s\n", f.Target)
		if f.Evidence != "" {
			fmt.Fprintf(w, "    evidence: %s\n", f.Evidence)
		}
	}

	fmt.Fprintln(w)
	for _, severity := range []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo} {
		if n := r.BySeverity[severity]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", severity, n)
		}
	}
}

// Save writes the report as JSON
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode scan report")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write scan report", goerr.V("path", path))
	}
	return nil
}
