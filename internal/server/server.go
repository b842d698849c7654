// Package server provides the HTTP API for the arrangement pipeline.
//
// Endpoints are mounted under /api/v1:
//
//	GET  /api/v1/health   - liveness and version info
//	POST /api/v1/layout   - compute transforms for inline image dimensions
//	POST /api/v1/arrange  - run the full pipeline and return artifacts
//
// Layout requests carry image dimensions inline, so the server never needs
// the image files themselves. Arrange requests may instead name a glob
// pattern, which is expanded on the server's filesystem.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stagekit/imageseq/pkg/observability"
	"github.com/stagekit/imageseq/pkg/pipeline"
)

// Server handles API requests by delegating to a pipeline runner.
type Server struct {
	runner    *pipeline.Runner
	logger    *log.Logger
	version   string
	startTime time.Time
}

// Config configures the API server.
type Config struct {
	// Runner executes pipeline requests. Required.
	Runner *pipeline.Runner

	// Logger receives request logs. Defaults to log.Default().
	Logger *log.Logger

	// Version is reported by the health endpoint.
	Version string

	// Timeout bounds request handling. Defaults to 30 seconds.
	Timeout time.Duration
}

// New creates an API server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:    cfg.Runner,
		logger:    logger,
		version:   cfg.Version,
		startTime: time.Now(),
	}
}

// Router builds the chi router with all middleware and routes mounted.
func (s *Server) Router(timeout time.Duration) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(s.logRequests)

	// CORS for browser clients.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if req.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, req)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/layout", s.handleLayout)
		r.Post("/arrange", s.handleArrange)
	})

	// Bare health endpoint for load balancers.
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/v1/health", http.StatusMovedPermanently)
	})

	return r
}

// logRequests logs each request with its duration and emits API hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		observability.API().OnRequest(req.Context(), req.Method, req.URL.Path)
		next.ServeHTTP(ww, req)

		duration := time.Since(start)
		observability.API().OnResponse(req.Context(), req.Method, req.URL.Path, ww.Status(), duration)

		s.logger.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", middleware.GetReqID(req.Context()))
	})
}
