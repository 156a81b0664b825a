package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/platform/config"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
)

// fallbackShutdownTimeout applies when neither the caller's context nor the
// config bounds Shutdown.
const fallbackShutdownTimeout = 10 * time.Second

// Server serves the API until Shutdown is called. Every request context
// carries the server logger, so handlers that run outside the logging
// middleware still log through logging.FromContext.
type Server struct {
	srv             *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration

	mu       sync.Mutex
	bound    string
	ready    chan struct{}
	readyOne sync.Once
}

// NewServer creates a server from cfg. A nil logger discards output.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = fallbackShutdownTimeout
	}

	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			BaseContext: func(net.Listener) context.Context {
				return logging.WithLogger(context.Background(), logger)
			},
		},
		logger:          logger,
		shutdownTimeout: shutdown,
		ready:           make(chan struct{}),
	}
}

// Start binds the listen address and serves until Shutdown. It returns nil
// after a graceful shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		s.markReady()
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	s.mu.Lock()
	s.bound = ln.Addr().String()
	s.mu.Unlock()
	s.markReady()

	s.logger.Info("starting HTTP server", slog.String("addr", ln.Addr().String()))

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Ready is closed once Start has bound its listener or failed to.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

func (s *Server) markReady() {
	s.readyOne.Do(func() { close(s.ready) })
}

// Shutdown stops accepting connections and waits for in-flight requests.
// Without a deadline on ctx, the configured shutdown timeout applies.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	s.logger.Info("shutting down HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("draining HTTP connections: %w", err)
	}
	return nil
}

// Addr returns the bound address once the server is listening, otherwise
// the configured one. With port 0 the bound address carries the real port.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound != "" {
		return s.bound
	}
	return s.srv.Addr
}
