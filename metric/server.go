package metric

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360/callmeter/errors"
)

// Server is the metrics HTTP scrape endpoint. It listens on all interfaces
// at the configured port.
type Server struct {
	port     int
	path     string
	server   *http.Server
	registry *Registry
	mu       sync.Mutex // protects server field
}

// NewServer creates a new metrics server backed by the provided registry.
func NewServer(port int, path string, registry *Registry) *Server {
	if path == "" {
		path = "/metrics"
	}
	if port == 0 {
		port = 9282
	}

	return &Server{
		port:     port,
		path:     path,
		registry: registry,
	}
}

// Start binds the listener and serves scrape requests. It blocks until the
// server is stopped, so callers typically run it in a goroutine and treat
// http.ErrServerClosed as a clean exit.
func (s *Server) Start() error {
	s.mu.Lock()

	if s.server != nil {
		s.mu.Unlock()
		return errors.WrapInvalid(
			fmt.Errorf("server already running"),
			"Server", "Start", "cannot start server that is already running")
	}

	if s.registry == nil {
		s.mu.Unlock()
		return errors.WrapFatal(
			fmt.Errorf("nil registry"),
			"Server", "Start", "metrics registry not provided")
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, promhttp.HandlerFor(
		s.registry.PrometheusRegistry(),
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}
	server := s.server
	s.mu.Unlock()

	if err := server.ListenAndServe(); err != nil {
		if err == http.ErrServerClosed {
			return err
		}
		return errors.WrapFatal(err, "Server", "Start",
			fmt.Sprintf("failed to start server on port %d", s.port))
	}
	return nil
}

// Stop releases the listener. Stopping an unstarted or already-stopped
// server is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		err := s.server.Close()
		s.server = nil // reset server field to allow restart
		if err != nil {
			return errors.WrapTransient(err, "Server", "Stop",
				"failed to stop HTTP server")
		}
	}
	return nil
}

// Address returns the scrape URL for this server.
func (s *Server) Address() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, s.path)
}
