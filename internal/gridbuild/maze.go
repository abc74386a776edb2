package gridbuild

import (
	"fmt"

	"github.com/vovakirdan/gridpath/internal/core"
)

// MazeSpec describes a perfect maze carved by a randomized depth-first
// backtracker. Loops knocks out that many extra interior walls afterwards,
// turning the tree into a graph with alternative routes.
type MazeSpec struct {
	Rows, Cols int
	Seed       *int64
	Loops      int
}

// Maze carves corridors between odd coordinates of an all-blocked grid and
// returns it with the top-left and bottom-right-most corridor cells as endpoints.
func Maze(spec MazeSpec) (*core.Grid, core.Coord, core.Coord, error) {
	if spec.Rows < 3 || spec.Cols < 3 {
		return nil, core.Coord{}, core.Coord{}, &core.InvalidInputError{
			Reason: fmt.Sprintf("maze size %dx%d is smaller than 3x3", spec.Rows, spec.Cols),
		}
	}

	g := core.NewGrid(spec.Rows, spec.Cols)
	for i := range g.Cells {
		g.Cells[i] = core.Blocked
	}

	rng := core.NewRNG(ResolveSeed(spec.Seed))
	start := core.C(1, 1)
	interior := func(c core.Coord) bool {
		return c.Row >= 1 && c.Row < spec.Rows-1 && c.Col >= 1 && c.Col < spec.Cols-1
	}

	g.Set(start, core.Walkable)
	stack := []core.Coord{start}
	visited := map[core.Coord]bool{start: true}
	jumps := [4]core.Coord{{Row: -2}, {Col: 2}, {Row: 2}, {Col: -2}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		var options []core.Coord
		for _, d := range jumps {
			next := cur.Add(d.Row, d.Col)
			if interior(next) && !visited[next] {
				options = append(options, next)
			}
		}
		if len(options) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := options[rng.Intn(len(options))]
		visited[next] = true
		g.Set(core.C((cur.Row+next.Row)/2, (cur.Col+next.Col)/2), core.Walkable)
		g.Set(next, core.Walkable)
		stack = append(stack, next)
	}

	for i := 0; i < spec.Loops; i++ {
		// walls between two corridor cells sit on exactly one even coordinate
		c := core.C(1+rng.Intn(spec.Rows-2), 1+rng.Intn(spec.Cols-2))
		if g.Walkable(c) || (c.Row%2 == 0) == (c.Col%2 == 0) {
			continue
		}
		if c.Row%2 == 0 && g.Walkable(c.Add(-1, 0)) && g.Walkable(c.Add(1, 0)) {
			g.Set(c, core.Walkable)
		} else if c.Col%2 == 0 && g.Walkable(c.Add(0, -1)) && g.Walkable(c.Add(0, 1)) {
			g.Set(c, core.Walkable)
		}
	}

	goal := core.C(lastOdd(spec.Rows-2), lastOdd(spec.Cols-2))
	return g, start, goal, nil
}

// lastOdd returns the largest odd number not above n (n >= 1).
func lastOdd(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}
