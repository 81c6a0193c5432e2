package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crow-router/crow/internal/infrastructure/config"
)

// Collectors groups every collector installed by Setup
type Collectors struct {
	Search    *SearchMetricsCollector
	Directory *DirectoryMetricsCollector
	Requests  *RequestMetricsCollector
}

// Setup initializes the registry, registers all collectors and installs the
// global recorders. Returns nil collectors when metrics are disabled.
func Setup(cfg config.MetricsConfig) (*Collectors, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	InitRegistry()
	if err := registerAll(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register runtime collectors: %w", err)
	}

	c := &Collectors{
		Search:    NewSearchMetricsCollector(),
		Directory: NewDirectoryMetricsCollector(),
		Requests:  NewRequestMetricsCollector(),
	}
	for _, r := range []interface{ Register() error }{c.Search, c.Directory, c.Requests} {
		if err := r.Register(); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	SetGlobalSearchCollector(c.Search)
	SetGlobalDirectoryCollector(c.Directory)
	return c, nil
}

// Server exposes the registry over HTTP for Prometheus scraping
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// NewServer creates a metrics server for the given registry
func NewServer(cfg config.MetricsConfig, registry *prometheus.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return &Server{
		shutdownTimeout: cfg.ShutdownTimeout,
		httpServer: &http.Server{
			Addr:              cfg.ListenAddress(),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeout := s.shutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
