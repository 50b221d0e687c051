package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/clearpath-fin/clearpath/pkg/metrics"
	"github.com/clearpath-fin/clearpath/pkg/service/worker"
	"github.com/clearpath-fin/clearpath/pkg/usecase"
	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
)

type Server struct {
	router     *chi.Mux
	uc         *usecase.UseCases
	tierConfig *config.TierConfig
	apiKey     string
	webhookCfg *config.WebhookConfig
	monitor    *worker.HealthMonitor
}

type Options func(*Server)

// WithAPIKey enables API-key authentication on /api routes
func WithAPIKey(key string) Options {
	return func(s *Server) {
		s.apiKey = key
	}
}

// WithPaymentWebhook enables the signed payment webhook endpoint
func WithPaymentWebhook(cfg *config.WebhookConfig) Options {
	return func(s *Server) {
		s.webhookCfg = cfg
	}
}

// WithHealthMonitor exposes monitor state on /healthz
func WithHealthMonitor(monitor *worker.HealthMonitor) Options {
	return func(s *Server) {
		s.monitor = monitor
	}
}

func New(uc *usecase.UseCases, tierConfig *config.TierConfig, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:     r,
		uc:         uc,
		tierConfig: tierConfig,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	// Payment webhook - no API key, uses signature verification
	if s.webhookCfg != nil {
		r.Route("/hooks/payment", func(r chi.Router) {
			r.Use(sourceFilterMiddleware(s.webhookCfg))
			r.Use(paymentSignatureMiddleware(s.webhookCfg))
			r.Post("/", s.handlePaymentWebhook)
		})
	}

	r.Route("/api", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(apiKeyMiddleware(s.apiKey))
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", s.handleCreateAccount)
			r.Get("/", s.handleListAccounts)

			r.Route("/{accountID}", func(r chi.Router) {
				r.Get("/", s.handleGetAccount)
				r.Get("/tier", s.handleGetTier)
				r.Get("/features/{featureID}", s.handleCheckFeature)
				r.Post("/trial", s.handleStartTrial)
				r.Get("/prompt", s.handleNextPrompt)
				r.Post("/assessments", s.handleRunAssessment)
				r.Get("/assessments", s.handleListAssessments)
				r.Get("/assessments/latest", s.handleLatestAssessment)
			})
		})

		r.Get("/tiers", s.handleListTiers)

		r.Route("/deliveries", func(r chi.Router) {
			r.Get("/", s.handleListDeliveries)
			r.Get("/{deliveryID}", s.handleGetDelivery)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if s.monitor != nil {
		statuses := s.monitor.Status()
		resp["endpoints"] = statuses
		for _, st := range statuses {
			if !st.Healthy {
				resp["status"] = "degraded"
				break
			}
		}
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

// accessLogger is a middleware that logs HTTP requests and feeds the
// request metrics
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			elapsed := time.Since(start)
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", elapsed,
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			metrics.RecordHTTPRequest(route, r.Method, strconv.Itoa(ww.Status()))
			metrics.RecordHTTPRequestDuration(route, r.Method, elapsed.Seconds())
		}()

		next.ServeHTTP(ww, r)
	})
}
