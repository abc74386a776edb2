package gridbuild

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/gridpath/internal/core"
)

// RandomSpec describes a procedurally generated obstacle grid.
type RandomSpec struct {
	Rows, Cols      int
	WallProbability float64
	// Seed makes generation reproducible. Nil seeds from the clock.
	Seed        *int64
	Start, Goal core.Coord
}

// Random fills a grid cell by cell in row-major order, blocking each cell with
// probability WallProbability, then forces Start and Goal walkable.
// The same spec with the same seed always yields the same grid.
func Random(spec RandomSpec) (*core.Grid, error) {
	if err := checkDims(spec.Rows, spec.Cols); err != nil {
		return nil, err
	}
	if p := spec.WallProbability; math.IsNaN(p) || p < 0 || p > 1 {
		return nil, &core.InvalidInputError{Reason: fmt.Sprintf("wall probability %.3f outside [0,1]", spec.WallProbability)}
	}

	g := core.NewGrid(spec.Rows, spec.Cols)
	for _, ep := range []core.Coord{spec.Start, spec.Goal} {
		if !g.InBounds(ep) {
			return nil, &core.InvalidInputError{Reason: fmt.Sprintf("endpoint %v outside %dx%d grid", ep, spec.Rows, spec.Cols)}
		}
	}

	rng := core.NewRNG(ResolveSeed(spec.Seed))
	for i := range g.Cells {
		if rng.Float() < spec.WallProbability {
			g.Cells[i] = core.Blocked
		}
	}

	g.Set(spec.Start, core.Walkable)
	g.Set(spec.Goal, core.Walkable)
	return g, nil
}

// ResolveSeed returns *seed, or a clock-derived seed when seed is nil.
func ResolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}

func checkDims(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return &core.InvalidInputError{Reason: fmt.Sprintf("grid size %dx%d must be positive", rows, cols)}
	}
	return nil
}
