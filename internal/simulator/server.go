package simulator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muurk/vzug/internal/logging"
	"go.uber.org/zap"
)

// Config holds the simulator server configuration
type Config struct {
	Host     string
	Port     int
	Scenario string
	Username string // empty disables digest auth
	Password string
	LogLevel string
}

// Server serves one simulated appliance over HTTP
type Server struct {
	config     *Config
	simulator  *Simulator
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a new Server instance
func NewServer(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	scenario, err := Lookup(config.Scenario)
	if err != nil {
		return nil, err
	}

	sim := New(scenario, WithDigestAuth(config.Username, config.Password))

	return &Server{
		config:    config,
		simulator: sim,
		httpServer: &http.Server{
			Handler:           sim.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Listen binds the listening socket. Start calls it when needed.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start serves requests and blocks until a shutdown signal or a server error
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	logging.Info("Starting V-ZUG appliance simulator",
		zap.String("addr", s.listener.Addr().String()),
		zap.String("scenario", s.config.Scenario),
		zap.Bool("digest_auth", s.config.Username != ""),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping simulator...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down simulator...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Info("Simulator stopped")
	return nil
}
