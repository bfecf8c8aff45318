// Package api provides the REST API HTTP server exposing the filesystem
// operations, health probes, and the Prometheus scrape endpoint.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/janwilmake/cloudflare-fs/internal/logger"
	"github.com/janwilmake/cloudflare-fs/pkg/api/handlers"
	"github.com/janwilmake/cloudflare-fs/pkg/metrics"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/router"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout and body size limit
//
// Routes:
//   - GET  /health           - Liveness probe
//   - GET  /health/ready     - Readiness probe
//   - GET  /health/shards    - Detailed shard health
//   - POST /v1/directories   - Create a directory
//   - GET  /v1/directories   - List a directory
//   - GET  /v1/stat          - Stat an entry
//   - GET  /v1/files         - Read a file
//   - PUT  /v1/files         - Write a file
//   - POST /v1/copy          - Copy a file or tree
//   - POST /v1/rename        - Rename an entry
//   - DELETE /v1/entries     - Remove an entry
//   - GET  /metrics          - Prometheus metrics (when enabled)
func NewRouter(fs *vfs.FS, shards *router.Registry, config APIConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(config.RequestTimeout))
	r.Use(bodyLimit(config.MaxBodySize.Int64()))

	healthHandler := handlers.NewHealthHandler(shards)
	fsHandler := handlers.NewFSHandler(fs)

	// Health routes - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
		r.Get("/shards", healthHandler.Shards)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/directories", fsHandler.Mkdir)
		r.Get("/directories", fsHandler.ReadDir)
		r.Get("/stat", fsHandler.Stat)
		r.Get("/files", fsHandler.ReadFile)
		r.Put("/files", fsHandler.WriteFile)
		r.Post("/copy", fsHandler.Copy)
		r.Post("/rename", fsHandler.Rename)
		r.Delete("/entries", fsHandler.Remove)
	})

	if metrics.IsEnabled() {
		r.Get("/metrics", promhttp.HandlerFor(
			metrics.GetRegistry(),
			promhttp.HandlerOpts{},
		).ServeHTTP)
	}

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	return r
}

// bodyLimit caps the request body at n bytes.
func bodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		// Wrap response writer to capture status code
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logger.Info("API request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		)
	})
}
