// Package engine runs complete solve requests: build or load a grid, resolve
// both endpoints to walkable cells, search, summarize and record.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/gridpath/internal/astar"
	"github.com/vovakirdan/gridpath/internal/config"
	"github.com/vovakirdan/gridpath/internal/core"
	"github.com/vovakirdan/gridpath/internal/gridbuild"
	"github.com/vovakirdan/gridpath/internal/locate"
	"github.com/vovakirdan/gridpath/internal/registry"
	"github.com/vovakirdan/gridpath/internal/report"
)

// Outcome classifies a finished solve. None of them is an error.
type Outcome string

const (
	OutcomeSolved     Outcome = "solved"
	OutcomeNoEndpoint Outcome = "no endpoint"
	OutcomeNoPath     Outcome = "no path"
)

// Solution is everything known about one solve.
type Solution struct {
	RunID  string
	Source string
	Grid   *core.Grid

	RequestedStart, RequestedEnd core.Coord
	Start, End                   core.Coord // after nearest-walkable resolution
	StartLookup, EndLookup       locate.Result

	Outcome Outcome
	Result  astar.Result
	Report  report.Report
	Elapsed time.Duration
}

// Entry converts the solution into a stats table row.
func (s Solution) Entry() report.Entry {
	return report.Entry{
		Source:   s.Source,
		Outcome:  string(s.Outcome),
		Report:   s.Report,
		Expanded: s.Result.Expanded,
		Elapsed:  s.Elapsed,
	}
}

// Record is the persisted summary of a solve.
type Record struct {
	RunID      string
	Source     string
	Outcome    Outcome
	Rows, Cols int
	Start, End core.Coord
	PathLength int
	Expanded   int
	Efficiency float64
	Elapsed    time.Duration
	Report     report.Report
}

// Recorder persists solve records.
// This allows the solver to keep history without depending on the storage package.
type Recorder interface {
	RecordSolve(rec Record) error
}

// Solver runs solve requests with a fixed configuration.
type Solver struct {
	cfg      config.Config
	logger   *log.Logger
	recorder Recorder // Optional, can be nil
	metrics  *Metrics // Optional, can be nil
}

// Option configures a Solver.
type Option func(*Solver)

// WithRecorder attaches a history recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Solver) { s.recorder = r }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(s *Solver) { s.metrics = m }
}

// NewSolver creates a solver. A nil logger discards log output.
func NewSolver(cfg config.Config, logger *log.Logger, opts ...Option) *Solver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Solver{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the solver configuration.
func (s *Solver) Config() config.Config {
	return s.cfg
}

// SolveGrid resolves start and end to their nearest walkable cells and runs
// A* between them. A missing endpoint or a missing path is reported through
// Solution.Outcome; errors are reserved for cancellation, the step limit and
// invalid endpoints.
func (s *Solver) SolveGrid(ctx context.Context, source string, g *core.Grid, start, end core.Coord, opts ...astar.Option) (Solution, error) {
	began := time.Now()
	sol := Solution{
		RunID:          uuid.NewString(),
		Source:         source,
		Grid:           g,
		RequestedStart: start,
		RequestedEnd:   end,
	}

	sol.StartLookup, sol.EndLookup = s.Resolve(g, start, end)
	sol.Start, sol.End = sol.StartLookup.Coord, sol.EndLookup.Coord

	if !sol.StartLookup.Found || !sol.EndLookup.Found {
		sol.Outcome = OutcomeNoEndpoint
		sol.Start, sol.End = start, end
		sol.Report = report.NewReport(g, start, end, nil)
		sol.Elapsed = time.Since(began)
		s.finish(sol)
		return sol, nil
	}
	if sol.StartLookup.Distance > 0 || sol.EndLookup.Distance > 0 {
		s.logger.Debug("endpoints moved to walkable cells",
			"source", source,
			"start", sol.Start, "start_shift", sol.StartLookup.Distance,
			"end", sol.End, "end_shift", sol.EndLookup.Distance)
	}

	searchOpts := make([]astar.Option, 0, len(opts)+1)
	if s.cfg.Search.StepLimit > 0 {
		searchOpts = append(searchOpts, astar.WithStepLimit(s.cfg.Search.StepLimit))
	}
	searchOpts = append(searchOpts, opts...)

	res, err := astar.Solve(ctx, g, sol.Start, sol.End, searchOpts...)
	sol.Result = res
	sol.Elapsed = time.Since(began)
	if err != nil {
		s.logger.Warn("solve aborted", "source", source, "expanded", res.Expanded, "err", err)
		return sol, fmt.Errorf("engine: solve %s: %w", source, err)
	}

	sol.Outcome = OutcomeNoPath
	if res.Found {
		sol.Outcome = OutcomeSolved
	}
	sol.Report = report.NewReport(g, sol.Start, sol.End, res.Path)
	s.finish(sol)
	return sol, nil
}

// Resolve maps both endpoints to their nearest walkable cells using the
// configured budget and connectivity.
func (s *Solver) Resolve(g *core.Grid, start, end core.Coord) (locate.Result, locate.Result) {
	lo := s.cfg.LocateOptions()
	return locate.Nearest(g, start, lo), locate.Nearest(g, end, lo)
}

// LoadFile loads an image or a grid file. The returned endpoints are nil unless
// the file stores them.
func (s *Solver) LoadFile(path string) (*core.Grid, *core.Coord, *core.Coord, error) {
	if gridbuild.IsGridFile(path) {
		gf, err := gridbuild.LoadGridFile(path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("engine: %w", err)
		}
		return gf.Grid, gf.Start, gf.End, nil
	}
	g, err := gridbuild.FromFile(path, s.cfg.ImageOptions())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("engine: %w", err)
	}
	return g, nil, nil, nil
}

// Endpoints picks explicit endpoints first, then file endpoints, then the
// top-left and bottom-right corners.
func Endpoints(g *core.Grid, start, end, fileStart, fileEnd *core.Coord) (core.Coord, core.Coord) {
	first, last := g.Corners()
	return pick(start, fileStart, first), pick(end, fileEnd, last)
}

// SolveFile loads an image or a grid file and solves it. Nil endpoints fall
// back to the file's own endpoints, then to the top-left and bottom-right corners.
func (s *Solver) SolveFile(ctx context.Context, path string, start, end *core.Coord, opts ...astar.Option) (Solution, error) {
	g, fileStart, fileEnd, err := s.LoadFile(path)
	if err != nil {
		return Solution{}, err
	}
	s.logger.Debug("grid built", "source", path, "rows", g.Rows, "cols", g.Cols, "walkable", g.WalkableCount())

	from, to := Endpoints(g, start, end, fileStart, fileEnd)
	return s.SolveGrid(ctx, path, g, from, to, opts...)
}

// SolveGenerated builds a grid with a registered source and solves it between
// the endpoints the source picked.
func (s *Solver) SolveGenerated(ctx context.Context, name string, seed int64, opts ...astar.Option) (Solution, error) {
	gen, err := s.Generate(name, seed)
	if err != nil {
		return Solution{}, err
	}
	return s.SolveGrid(ctx, fmt.Sprintf("%s#%d", name, seed), gen.Grid, gen.Start, gen.Goal, opts...)
}

// Generate builds a grid with a registered source using the generator config.
func (s *Solver) Generate(name string, seed int64) (registry.Generated, error) {
	src, err := registry.Create(name)
	if err != nil {
		return registry.Generated{}, fmt.Errorf("engine: %w", err)
	}
	gen, err := src.Generate(s.cfg.GeneratorParams(seed))
	if err != nil {
		return registry.Generated{}, fmt.Errorf("engine: generate %s: %w", name, err)
	}
	return gen, nil
}

// finish logs, records and counts a completed solve.
func (s *Solver) finish(sol Solution) {
	s.logger.Info("solve finished",
		"source", sol.Source,
		"outcome", sol.Outcome,
		"rows", sol.Grid.Rows, "cols", sol.Grid.Cols,
		"length", sol.Report.PathLength,
		"expanded", sol.Result.Expanded,
		"elapsed", sol.Elapsed)

	if s.metrics != nil {
		s.metrics.Observe(sol)
	}
	if s.recorder == nil {
		return
	}
	rec := Record{
		RunID:      sol.RunID,
		Source:     sol.Source,
		Outcome:    sol.Outcome,
		Rows:       sol.Grid.Rows,
		Cols:       sol.Grid.Cols,
		Start:      sol.Start,
		End:        sol.End,
		PathLength: sol.Report.PathLength,
		Expanded:   sol.Result.Expanded,
		Efficiency: sol.Report.Efficiency,
		Elapsed:    sol.Elapsed,
		Report:     sol.Report,
	}
	if err := s.recorder.RecordSolve(rec); err != nil {
		s.logger.Warn("cannot record solve", "source", sol.Source, "err", err)
	}
}

// IsEndpointError reports whether err stems from a blocked or out-of-bounds endpoint.
func IsEndpointError(err error) bool {
	var unreachable *core.UnreachableEndpointError
	return errors.As(err, &unreachable)
}

func pick(explicit, fallback *core.Coord, def core.Coord) core.Coord {
	if explicit != nil {
		return *explicit
	}
	if fallback != nil {
		return *fallback
	}
	return def
}
