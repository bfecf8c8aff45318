package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/janwilmake/cloudflare-fs/internal/logger"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/router"
)

// stopGrace bounds the drain started when Start's context is cancelled.
// Callers invoking Stop directly choose their own deadline.
const stopGrace = 5 * time.Second

// Server is the HTTP front end of the filesystem service: the REST file
// API plus the health endpoints. It drains in-flight requests on shutdown.
type Server struct {
	http     *http.Server
	cfg      APIConfig
	stopOnce sync.Once
}

// NewServer builds a stopped server; call Start to begin serving.
// Defaults are applied here too so a directly constructed config (as in
// tests) behaves the same as a loaded one.
func NewServer(cfg APIConfig, fs *vfs.FS, shards *router.Registry) *Server {
	cfg.applyDefaults()

	return &Server{
		http: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      NewRouter(fs, shards, cfg),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg: cfg,
	}
}

// Start serves until ctx is cancelled or the listener fails. On
// cancellation it drains and returns nil.
func (s *Server) Start(ctx context.Context) error {
	failed := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "port", s.cfg.Port)
		logger.Debug("API endpoints available",
			"health", fmt.Sprintf("http://localhost:%d/health", s.cfg.Port),
			"files", fmt.Sprintf("http://localhost:%d/v1/files", s.cfg.Port),
		)

		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	// ctx is already cancelled here, so the drain needs its own deadline.
	stopCtx, cancel := context.WithTimeout(context.Background(), stopGrace)
	defer cancel()
	return s.Stop(stopCtx)
}

// Stop drains the server. It is idempotent and safe to call while Start
// is still running.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		logger.Debug("API server shutdown initiated")

		if err = s.http.Shutdown(ctx); err != nil {
			err = fmt.Errorf("API server shutdown: %w", err)
			return
		}
		logger.Info("API server stopped gracefully")
	})
	return err
}

// Port returns the TCP port the server listens on.
func (s *Server) Port() int {
	return s.cfg.Port
}
