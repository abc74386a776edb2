// Package astar computes shortest 4-connected paths on a core.Grid.
//
// It exposes two entry points:
//
//   - Solve: run the search to completion and get a Result.
//   - Stepper: advance the search one expansion at a time to drive UIs.
//
// The frontier uses lazy deletion: improved routes push a new entry and the
// closed set discards superseded ones when they are popped.
package astar

import (
	"context"
	"errors"

	"github.com/vovakirdan/gridpath/internal/core"
)

// ErrStepLimit is returned when a search exceeds the configured expansion budget.
var ErrStepLimit = errors.New("astar: step limit exceeded")

// Result contains the outcome of a search. Found=false with a nil error means
// the frontier was exhausted: no path exists between the endpoints.
type Result struct {
	Path     core.Path
	Cost     int
	Expanded int
	Found    bool
}

// Observer is invoked after every expansion. It must not retain the Snapshot.
type Observer func(Snapshot)

// Options defines parameters for the search.
type Options struct {
	Observer  Observer
	StepLimit int // 0 means unlimited
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithObserver registers a callback invoked after each expansion step.
func WithObserver(fn Observer) Option {
	return func(o *Options) { o.Observer = fn }
}

// WithStepLimit aborts the search with ErrStepLimit when it needs more than n
// expansions. A search that ends within n expansions returns its real outcome.
func WithStepLimit(n int) Option {
	return func(o *Options) { o.StepLimit = n }
}

// Solve runs A* from start to goal. Endpoint validation happens before any
// expansion. The context is checked between expansions; on cancellation the
// search state is dropped and ctx.Err() is returned.
func Solve(ctx context.Context, g *core.Grid, start, goal core.Coord, options ...Option) (Result, error) {
	var opts Options
	for _, option := range options {
		option(&opts)
	}

	stepper, err := NewStepper(g, start, goal)
	if err != nil {
		return Result{}, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if opts.StepLimit > 0 && stepper.Expanded() >= opts.StepLimit && stepper.expandsNext() {
			return Result{Expanded: stepper.Expanded()}, ErrStepLimit
		}

		snap, progressed := stepper.Step()
		if progressed && opts.Observer != nil {
			opts.Observer(snap)
		}
		if stepper.Done() {
			return stepper.Result(), nil
		}
	}
}
