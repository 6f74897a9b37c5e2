package channel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"emojitranslator/internal/domain"
	"emojitranslator/internal/metrics"
)

// ServerConfig configures the standalone Events API server.
type ServerConfig struct {
	Addr            string
	EventsPath      string // default: /slack/events
	SigningSecret   string
	MetricsEndpoint string // empty disables /metrics
	Logger          *slog.Logger
}

// Server hosts the Events API handler with health and metrics endpoints.
type Server struct {
	addr    string
	path    string
	metrics string
	handler *EventsHandler
	logger  *slog.Logger
	server  *http.Server
}

func NewServer(cfg ServerConfig, sink domain.EventSink) *Server {
	if cfg.EventsPath == "" {
		cfg.EventsPath = "/slack/events"
	}
	return &Server{
		addr:    cfg.Addr,
		path:    cfg.EventsPath,
		metrics: cfg.MetricsEndpoint,
		handler: NewEventsHandler(EventsConfig{
			SigningSecret: cfg.SigningSecret,
			Sink:          sink,
			Logger:        cfg.Logger,
		}),
		logger: cfg.Logger,
	}
}

func (s *Server) Name() string { return "events-api" }

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.path, s.handler)
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain")
		rw.Write([]byte("ok"))
	})
	if s.metrics != "" {
		mux.Handle(s.metrics, metrics.Handler())
	}
	return mux
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("events server starting", "addr", s.addr, "path", s.path)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("events server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("events server: %w", err)
	}
}
