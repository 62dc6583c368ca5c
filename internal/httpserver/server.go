// internal/httpserver/server.go
//
// HTTP server wiring for the Wheelword backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts,
//     JSON, CORS, gzip, metrics).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Wheelword endpoints (optional auth): mounted under /wheelword.
//   - Auth endpoints: /auth/*.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled so the auth cookie works.
//   - Optional auth decorates requests with the user when a valid token is
//     present; guests still reach the route.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"

	"github.com/santiago-ondris/wheels-house-sub002/internal/auth"
	"github.com/santiago-ondris/wheels-house-sub002/internal/logging"
	"github.com/santiago-ondris/wheels-house-sub002/internal/metrics"
	"github.com/santiago-ondris/wheels-house-sub002/internal/wheelword"
)

// Options carries the HTTP-facing settings.
type Options struct {
	Addr           string
	ClientOrigin   string
	CookieName     string
	Production     bool
	RequestTimeout time.Duration
}

// Server bundles the router and the services behind it.
type Server struct {
	r        *chi.Mux
	game     *wheelword.Service
	auth     *auth.Service
	metrics  metrics.Recorder
	validate *validator.Validate
	opts     Options
	http     *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(game *wheelword.Service, authSvc *auth.Service, rec metrics.Recorder, opts Options) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "wheelword_token"
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{
		r:        chi.NewRouter(),
		game:     game,
		auth:     authSvc,
		metrics:  rec,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		opts:     opts,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(logging.RequestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(opts.RequestTimeout))
	s.r.Use(metrics.Middleware(rec))
	s.r.Use(func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) })
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "wheelword",
			"endpoints": []string{
				"/health", "GET /wheelword/today", "POST /wheelword/guess", "GET /wheelword/state",
				"GET /wheelword/stats", "POST /wheelword/share", "GET /wheelword/leaderboard", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Method(http.MethodGet, "/metrics", rec.Handler())

	s.mountWheelword()
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on opts.Addr until Shutdown is called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Info().Str("addr", s.opts.Addr).Msg("listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.opts.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
