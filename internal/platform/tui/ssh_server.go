package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/gridpath/internal/config"
	"github.com/vovakirdan/gridpath/internal/engine"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.gridpath/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// MaxSessions caps concurrent sessions. Zero means unlimited.
	MaxSessions int

	// MetricsAddress serves /metrics when set.
	MetricsAddress string

	Watch config.WatchConfig
}

// SSHConfigFrom maps the file configuration onto the server settings.
func SSHConfigFrom(cfg config.Config) SSHServerConfig {
	return SSHServerConfig{
		Address:        cfg.Server.Address,
		HostKeyPath:    cfg.Server.HostKeyPath,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxSessions:    cfg.Server.MaxSessions,
		MetricsAddress: cfg.Server.MetricsAddress,
		Watch:          cfg.Watch,
	}
}

// SSHServer serves the search animation over SSH with Wish.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	metrics *http.Server
	solver  *engine.Solver
	logger  *log.Logger
	active  atomic.Int32
	seeds   atomic.Int64
}

// NewSSHServer creates a new SSH server. Finished session searches go
// through solver, which records and counts them. gatherer backs the
// metrics endpoint and may be nil when MetricsAddress is empty.
func NewSSHServer(cfg SSHServerConfig, solver *engine.Solver, gatherer prometheus.Gatherer, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gridpath-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		solver: solver,
		logger: logger,
	}
	srv.seeds.Store(time.Now().UnixNano())

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".gridpath", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middlewares run last to first: logging wraps the limit, which wraps the program.
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.limitMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server

	if cfg.MetricsAddress != "" {
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
		srv.metrics = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return srv, nil
}

// teaHandler creates a session program for each SSH session. Every grid
// a session watches is built on a fresh seed.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(s.scenario, WatchOptions{
		FPS:           s.config.Watch.FPS,
		StepsPerFrame: s.config.Watch.StepsPerFrame,
		OnDone:        Recorder(sshSession.Context(), s.solver),
	}, pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// scenario builds a grid for sourceID, retrying a few seeds when the
// generated grid leaves no walkable cell near an endpoint.
func (s *SSHServer) scenario(sourceID string) (Scenario, error) {
	var lastErr error
	for range 8 {
		sc, err := GeneratedScenario(s.solver, sourceID, s.seeds.Add(1))
		if err == nil {
			return sc, nil
		}
		lastErr = err
	}
	s.logger.Warn("cannot build scenario", "source", sourceID, "err", lastErr)
	return Scenario{}, lastErr
}

// limitMiddleware rejects sessions beyond MaxSessions.
func (s *SSHServer) limitMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		n := s.active.Add(1)
		defer s.active.Add(-1)

		if s.config.MaxSessions > 0 && int(n) > s.config.MaxSessions {
			s.logger.Warn("session limit reached", "user", sshSession.User(), "active", n-1)
			wish.Fatalln(sshSession, "gridpath: too many sessions, try again later")
			return
		}
		next(sshSession)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ActiveSessions returns the number of sessions currently connected.
func (s *SSHServer) ActiveSessions() int {
	return int(s.active.Load())
}

// ListenAndServe starts the SSH server and blocks until ctx is done or
// the process receives an interrupt.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("starting SSH server", "address", s.config.Address)

	errs := make(chan error, 2)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errs <- err
		}
	}()

	if s.metrics != nil {
		s.logger.Info("serving metrics", "address", s.metrics.Addr)
		go func() {
			if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errs:
		s.logger.Error("server error", "error", serveErr)
	}

	s.logger.Info("shutting down...")
	return errors.Join(serveErr, s.Shutdown())
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var metricsErr error
	if s.metrics != nil {
		metricsErr = s.metrics.Shutdown(ctx)
	}
	return errors.Join(s.server.Shutdown(ctx), metricsErr)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
