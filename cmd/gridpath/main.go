// gridpath finds shortest paths on grids built from images, grid files or
// procedural generators.
//
// Usage:
//
//	gridpath solve [file]        - Solve an image or grid file (or a generated grid)
//	gridpath generate <out>      - Write a generated grid as YAML, text or PNG
//	gridpath watch [file]        - Animate the search in the terminal
//	gridpath batch <files...>    - Solve many inputs concurrently and tabulate
//	gridpath history             - Browse recorded solves
//	gridpath serve               - Start the SSH server
//	gridpath sources             - List grid sources
//	gridpath config              - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Configuration file (default: search path)
//	--db <path>         - History database (default: ~/.gridpath/history.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--seed <value>      - Seed for generated grids
//	--no-history        - Do not record solves
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gridpath/internal/config"
	"github.com/vovakirdan/gridpath/internal/core"
	"github.com/vovakirdan/gridpath/internal/engine"
	"github.com/vovakirdan/gridpath/internal/gridbuild"
	"github.com/vovakirdan/gridpath/internal/storage"
)

var (
	// Global flags
	flagConfig    string
	flagDBPath    string
	flagLogLevel  string
	flagSeed      int64
	flagNoHistory bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gridpath",
	Short: "gridpath - shortest paths on image and generated grids",
	Long: `gridpath turns images, grid files and procedural generators into
walkable grids and finds shortest 4-connected paths with A*.

Blocked endpoints move to the nearest walkable cell before the search.
Every solve is recorded in a local history database unless disabled.

Examples:
  gridpath solve floorplan.png --png route.png
  gridpath solve --source maze --seed 7 --ascii
  gridpath generate maze.yaml --source maze --rows 41 --cols 81
  gridpath watch --source random
  gridpath batch scans/*.png --markdown
  gridpath history --plain
  gridpath serve`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Seed for generated grids (default: config or clock)")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record solves")

	// Add subcommands
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(configCmd)
}

// fatal prints an error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagNoHistory {
		cfg.Storage.Enabled = false
	}
	return cfg
}

// newLogger builds the stderr logger at the configured level.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gridpath",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openStore opens the history database. It returns nil when history is
// disabled or the database cannot be opened; solving works without it.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	if !cfg.Storage.Enabled {
		return nil
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open history database", "path", cfg.Storage.Path, "err", err)
		return nil
	}
	return store
}

// newSolver wires the solver with the history store when one is open.
func newSolver(cfg config.Config, logger *log.Logger, store *storage.Store, opts ...engine.Option) *engine.Solver {
	if store != nil {
		opts = append(opts, engine.WithRecorder(store))
	}
	return engine.NewSolver(cfg, logger, opts...)
}

// resolveSeed prefers --seed, then the configured seed, then the clock.
func resolveSeed(cmd *cobra.Command, cfg config.Config) int64 {
	if cmd.Flags().Changed("seed") {
		return flagSeed
	}
	return gridbuild.ResolveSeed(cfg.Generator.RandomSeed)
}

// parseCoord parses "row,col".
func parseCoord(s string) (*core.Coord, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("coordinate %q must be row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("coordinate %q: bad row: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("coordinate %q: bad col: %w", s, err)
	}
	c := core.C(row, col)
	return &c, nil
}

// termSize returns the terminal size, falling back to 80x24.
func termSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

// isTerminal reports whether stdout is attached to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
