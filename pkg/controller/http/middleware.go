package http

import (
	"bytes"
	"crypto/subtle"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/clearpath-fin/clearpath/pkg/service/payment"
	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
)

// APIKeyHeader carries the client credential for /api routes
const APIKeyHeader = "X-API-Key"

// apiKeyMiddleware rejects requests without the configured API key
func apiKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sourceFilterMiddleware rejects webhook requests from addresses outside the
// configured allowlist
func sourceFilterMiddleware(cfg *config.WebhookConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			ip := net.ParseIP(host)
			if ip == nil || !cfg.IsSourceAllowed(ip) {
				logging.From(r.Context()).Warn("webhook from disallowed source",
					"remote", r.RemoteAddr,
				)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// paymentSignatureMiddleware verifies the provider's HMAC signature over the
// request body. The body is re-attached for downstream handlers.
func paymentSignatureMiddleware(cfg *config.WebhookConfig) func(http.Handler) http.Handler {
	tolerance := time.Duration(cfg.ToleranceSec) * time.Second

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}

			header := r.Header.Get(payment.SignatureHeader)
			if err := payment.VerifySignature(cfg.SigningSecret, header, body, time.Now(), tolerance); err != nil {
				logging.From(r.Context()).Warn("webhook signature rejected",
					"remote", r.RemoteAddr,
					"error", err.Error(),
				)
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
