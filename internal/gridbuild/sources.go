package gridbuild

import (
	"github.com/vovakirdan/gridpath/internal/core"
	"github.com/vovakirdan/gridpath/internal/registry"
)

func init() {
	registry.Register("random", func() registry.Source { return randomSource{} })
	registry.Register("maze", func() registry.Source { return mazeSource{} })
}

// randomSource scatters walls uniformly and opens the two far corners.
type randomSource struct{}

func (randomSource) ID() string    { return "random" }
func (randomSource) Title() string { return "Random obstacles" }

func (randomSource) Generate(p registry.Params) (registry.Generated, error) {
	start, goal := core.C(0, 0), core.C(p.Rows-1, p.Cols-1)
	seed := p.Seed
	g, err := Random(RandomSpec{
		Rows:            p.Rows,
		Cols:            p.Cols,
		WallProbability: p.WallProbability,
		Seed:            &seed,
		Start:           start,
		Goal:            goal,
	})
	if err != nil {
		return registry.Generated{}, err
	}
	return registry.Generated{Grid: g, Start: start, Goal: goal}, nil
}

type mazeSource struct{}

func (mazeSource) ID() string    { return "maze" }
func (mazeSource) Title() string { return "Backtracker maze" }

func (mazeSource) Generate(p registry.Params) (registry.Generated, error) {
	seed := p.Seed
	g, start, goal, err := Maze(MazeSpec{Rows: p.Rows, Cols: p.Cols, Seed: &seed, Loops: p.Loops})
	if err != nil {
		return registry.Generated{}, err
	}
	return registry.Generated{Grid: g, Start: start, Goal: goal}, nil
}
