package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridpath/internal/engine"
	"github.com/vovakirdan/gridpath/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagMaxSessions int
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gridpath SSH server",
	Long: `Start an SSH server where every connection picks a grid source and
watches A* solve freshly generated grids.

Finished searches are recorded in the server's history database.
With --metrics, Prometheus metrics are served at /metrics.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.gridpath/host_key

Examples:
  gridpath serve                      # Listen on :23235 with auto-generated key
  gridpath serve --ssh :2222          # Listen on port 2222
  gridpath serve --metrics :9090      # Also expose metrics

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default: server.address)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default: server.idle_timeout)")
	serveCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", -1, "Concurrent session cap, 0 for none (default: server.max_sessions)")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Metrics listen address (default: server.metrics_address)")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	if flagSSHAddr != "" {
		cfg.Server.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	if flagMaxSessions >= 0 {
		cfg.Server.MaxSessions = flagMaxSessions
	}
	if flagMetricsAddr != "" {
		cfg.Server.MetricsAddress = flagMetricsAddr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := engine.NewMetrics(reg)

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}
	solver := newSolver(cfg, logger, store, engine.WithMetrics(metrics))

	server, err := tui.NewSSHServer(tui.SSHConfigFrom(cfg), solver, reg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting gridpath SSH server on %s\n", server.Addr())
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(server.Addr()))
	fmt.Println("Press Ctrl+C to stop")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := server.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
