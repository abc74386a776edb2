package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/gridpath/internal/astar"
)

// BatchItem is the result for one file of a batch. Err holds load or search
// failures for that file only.
type BatchItem struct {
	Path     string
	Solution Solution
	Err      error
}

// SolveBatch solves every path with at most parallel concurrent solves.
// Results come back in input order. A failing file does not stop the batch;
// only cancellation of ctx does, in which case ctx.Err() is returned.
func (s *Solver) SolveBatch(ctx context.Context, paths []string, parallel int) ([]BatchItem, error) {
	if parallel <= 0 {
		parallel = s.cfg.Search.Parallel
	}
	if parallel <= 0 {
		parallel = 1
	}

	items := make([]BatchItem, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, path := range paths {
		items[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sol, err := s.SolveFile(gctx, path, nil, nil)
			items[i].Solution, items[i].Err = sol, err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}
	if err := ctx.Err(); err != nil {
		return items, err
	}
	return items, nil
}

// SolveSeeds solves a registered source once per seed, concurrently.
func (s *Solver) SolveSeeds(ctx context.Context, name string, seeds []int64, parallel int, opts ...astar.Option) ([]BatchItem, error) {
	if parallel <= 0 {
		parallel = max(1, s.cfg.Search.Parallel)
	}

	items := make([]BatchItem, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, seed := range seeds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sol, err := s.SolveGenerated(gctx, name, seed, opts...)
			items[i] = BatchItem{Path: fmt.Sprintf("%s#%d", name, seed), Solution: sol, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, ctx.Err()
}
