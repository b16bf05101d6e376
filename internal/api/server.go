// Package api provides the HTTP server for balloond.
// It exposes the balloon ledger, the gated AI feature endpoints, and the
// usual health/metrics plumbing.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/eventor-ai/balloond/internal/app/audit"
	"github.com/eventor-ai/balloond/internal/app/gate"
	"github.com/eventor-ai/balloond/internal/app/ledger"
	"github.com/eventor-ai/balloond/internal/app/promo"
	"github.com/eventor-ai/balloond/internal/infra/auth"
)

// Version is the service version reported by /api/version.
const Version = "0.3.0"

// Server is the balloond HTTP API server.
type Server struct {
	ledger         *ledger.Service
	gate           *gate.Gate
	promo          *promo.Service
	auditor        *audit.Auditor
	resolver       *auth.Resolver
	limiter        *actorLimiter
	log            zerolog.Logger
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(ledgerSvc *ledger.Service, gateSvc *gate.Gate, promoSvc *promo.Service, resolver *auth.Resolver, log zerolog.Logger) *Server {
	return &Server{
		ledger:   ledgerSvc,
		gate:     gateSvc,
		promo:    promoSvc,
		resolver: resolver,
		limiter:  newActorLimiter(0), // disabled until SetSpendRate
		log:      log,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetAuditor wires the ledger auditor for the operator endpoint.
func (s *Server) SetAuditor(a *audit.Auditor) { s.auditor = a }

// SetSpendRate caps spend/invoke requests per actor per minute (0 = off).
func (s *Server) SetSpendRate(perMinute int) { s.limiter = newActorLimiter(perMinute) }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(corsMiddleware)
	r.Use(s.requestLogger)

	// Health check for the hosting platform
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "balloond is running",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	// Balloon ledger
	r.Route("/api/balloons", func(r chi.Router) {
		r.Get("/", s.handleBalance)
		r.Post("/spend", s.handleSpend)
		r.Post("/earn", s.handleEarn)
		r.Get("/transactions", s.handleTransactions)
	})

	// Gated AI features
	r.Route("/api/features", func(r chi.Router) {
		r.Get("/", s.handleListFeatures)
		r.Post("/{name}", s.handleInvokeFeature)
	})

	// Promotions
	r.Route("/api/promo", func(r chi.Router) {
		r.Post("/signup", s.handleClaimSignup)
		r.Post("/daily", s.handleClaimDaily)
	})

	// Operator endpoints
	r.Get("/api/audit", s.handleAudit)

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// requestLogger logs every request with its resolved status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the browser frontend.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+auth.GuestTokenHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
