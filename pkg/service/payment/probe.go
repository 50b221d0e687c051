package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ProbeResult is the outcome of a webhook endpoint probe
type ProbeResult struct {
	EndpointURL string        `json:"endpoint_url"`
	StatusCode  int           `json:"status_code"`
	Latency     time.Duration `json:"latency"`
	OK          bool          `json:"ok"`
}

// Prober validates a configured webhook endpoint by delivering a signed
// test event to it, the same way the provider would.
type Prober struct {
	cfg    *config.WebhookConfig
	client *http.Client
}

// NewProber creates a prober for the given webhook configuration
func NewProber(cfg *config.WebhookConfig) *Prober {
	return &Prober{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// testEvent builds a synthetic ping event payload
func testEvent() ([]byte, error) {
	event := map[string]interface{}{
		"id":      "evt_test_" + uuid.NewString(),
		"type":    "ping",
		"created": time.Now().Unix(),
		"data": map[string]interface{}{
			"object": map[string]interface{}{},
		},
	}
	return json.Marshal(event)
}

// Probe delivers a signed test event and checks the endpoint responds 2xx
func (p *Prober) Probe(ctx context.Context) (*ProbeResult, error) {
	if p.cfg.EndpointURL == "" {
		return nil, goerr.New("webhook endpoint URL is not configured")
	}
	if p.cfg.SigningSecret == "" {
		return nil, goerr.New("webhook signing secret is not configured")
	}

	body, err := testEvent()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build test event")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create probe request", goerr.V("url", p.cfg.EndpointURL))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, BuildSignatureHeader(p.cfg.SigningSecret, time.Now().Unix(), body))

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "webhook endpoint unreachable", goerr.V("url", p.cfg.EndpointURL))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	result := &ProbeResult{
		EndpointURL: p.cfg.EndpointURL,
		StatusCode:  resp.StatusCode,
		Latency:     time.Since(start),
		OK:          resp.StatusCode >= 200 && resp.StatusCode < 300,
	}

	return result, nil
}

// CheckSource reports whether the given address would pass the allowlist
func (p *Prober) CheckSource(addr string) (bool, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false, goerr.New("invalid IP address", goerr.V("addr", addr))
	}
	return p.cfg.IsSourceAllowed(ip), nil
}
