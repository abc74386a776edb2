package tui

import (
	"context"
	"fmt"

	"github.com/vovakirdan/gridpath/internal/astar"
	"github.com/vovakirdan/gridpath/internal/core"
	"github.com/vovakirdan/gridpath/internal/engine"
	"github.com/vovakirdan/gridpath/internal/locate"
)

// GeneratedScenario builds a grid with a registered source and moves the
// source's endpoints to walkable cells.
func GeneratedScenario(solver *engine.Solver, name string, seed int64) (Scenario, error) {
	gen, err := solver.Generate(name, seed)
	if err != nil {
		return Scenario{}, err
	}
	return resolvedScenario(solver, fmt.Sprintf("%s#%d", name, seed), gen.Grid, gen.Start, gen.Goal)
}

// FileScenario loads an image or grid file. Nil endpoints fall back to the
// file's endpoints, then to the corners.
func FileScenario(solver *engine.Solver, path string, start, end *core.Coord) (Scenario, error) {
	g, fileStart, fileEnd, err := solver.LoadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	from, to := engine.Endpoints(g, start, end, fileStart, fileEnd)
	return resolvedScenario(solver, path, g, from, to)
}

func resolvedScenario(solver *engine.Solver, source string, g *core.Grid, start, end core.Coord) (Scenario, error) {
	from, to := solver.Resolve(g, start, end)
	if err := lookupErr(core.EndpointStart, start, from); err != nil {
		return Scenario{}, err
	}
	if err := lookupErr(core.EndpointEnd, end, to); err != nil {
		return Scenario{}, err
	}
	return Scenario{Source: source, Grid: g, Start: from.Coord, End: to.Coord}, nil
}

func lookupErr(which core.Endpoint, requested core.Coord, res locate.Result) error {
	if res.Found {
		return nil
	}
	return fmt.Errorf("tui: no walkable cell near %s %v within %d steps", which, requested, res.Levels)
}

// Recorder returns an OnDone hook that runs the finished scenario through
// the solver so it is logged, counted and stored like any other solve.
func Recorder(ctx context.Context, solver *engine.Solver) func(Scenario, astar.Result) {
	return func(sc Scenario, _ astar.Result) {
		//nolint:errcheck // the solver logs its own failures
		solver.SolveGrid(ctx, sc.Source, sc.Grid, sc.Start, sc.End)
	}
}
