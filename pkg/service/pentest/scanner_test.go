package pentest_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clearpath-fin/clearpath/pkg/service/pentest"
	"github.com/m-mizutani/gt"
)

func TestScanner_HardenedTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Strict-Transport-Security", "max-age=63072000")

		switch r.URL.Path {
		case "/healthz":
			fmt.Fprint(w, "OK")
		case "/api/accounts":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			fmt.Fprint(w, "welcome")
		}
	}))
	defer srv.Close()

	scanner := pentest.NewScanner(srv.URL,
		pentest.WithClient(srv.Client()),
		pentest.WithProtectedPaths([]string{"/api/accounts"}),
		pentest.WithProbeParams([]string{"q"}),
	)

	report, err := scanner.Scan(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, report.Target).Equal(srv.URL)
	gt.Value(t, report.ProbeCount).Equal(3)
	gt.Array(t, report.Findings).Length(0)
	gt.Value(t, report.HasBlocking(pentest.SeverityLow)).Equal(false)
}

func TestScanner_VulnerableTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "clearpath/0.9")

		switch r.URL.Path {
		case "/healthz":
			fmt.Fprint(w, "OK")
		case "/api/accounts":
			fmt.Fprint(w, `[{"id":1}]`)
		default:
			fmt.Fprintf(w, "<html>results for %s</html>", r.URL.Query().Get("q"))
		}
	}))
	defer srv.Close()

	scanner := pentest.NewScanner(srv.URL,
		pentest.WithClient(srv.Client()),
		pentest.WithProtectedPaths([]string{"/api/accounts"}),
		pentest.WithProbeParams([]string{"q"}),
	)

	report, err := scanner.Scan(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, report.ProbeCount).Equal(3)
	gt.Array(t, report.Findings).Length(7)

	t.Run("findings are sorted by severity", func(t *testing.T) {
		gt.Value(t, report.Findings[0].Severity).Equal(pentest.SeverityCritical)
		gt.Value(t, report.Findings[0].Category).Equal("auth")
		gt.Value(t, report.Findings[1].Severity).Equal(pentest.SeverityHigh)
		gt.Value(t, report.Findings[1].Category).Equal("injection")
		gt.Value(t, report.Findings[len(report.Findings)-1].Severity).Equal(pentest.SeverityInfo)
	})

	t.Run("severity counts are tallied", func(t *testing.T) {
		gt.Value(t, report.BySeverity[pentest.SeverityCritical]).Equal(1)
		gt.Value(t, report.BySeverity[pentest.SeverityHigh]).Equal(1)
		gt.Value(t, report.BySeverity[pentest.SeverityMedium]).Equal(2)
		gt.Value(t, report.BySeverity[pentest.SeverityLow]).Equal(2)
		gt.Value(t, report.BySeverity[pentest.SeverityInfo]).Equal(1)
	})

	t.Run("server disclosure carries evidence", func(t *testing.T) {
		last := report.Findings[len(report.Findings)-1]
		gt.Value(t, last.Evidence).Equal("clearpath/0.9")
	})

	t.Run("blocking threshold", func(t *testing.T) {
		gt.Value(t, report.HasBlocking(pentest.SeverityCritical)).Equal(true)
		gt.Value(t, report.HasBlocking(pentest.SeverityHigh)).Equal(true)
	})
}

func TestScanner_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Strict-Transport-Security", "max-age=63072000")

		if r.URL.Path == "/api/accounts" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "OK")
	}))
	defer srv.Close()

	scanner := pentest.NewScanner(srv.URL,
		pentest.WithClient(srv.Client()),
		pentest.WithProtectedPaths([]string{"/api/accounts"}),
		pentest.WithProbeParams([]string{"q"}),
	)

	report, err := scanner.Scan(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, report.Findings).Length(1)
	gt.Value(t, report.Findings[0].Severity).Equal(pentest.SeverityLow)
	gt.Value(t, report.Findings[0].Evidence).Equal("500 Internal Server Error")
}
