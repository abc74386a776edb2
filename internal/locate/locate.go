// Package locate maps an arbitrary coordinate to the closest walkable cell
// of a grid with a bounded breadth-first search.
package locate

import (
	"fmt"

	"github.com/vovakirdan/gridpath/internal/core"
)

// DefaultBudget is the search radius used when Options.Budget is not positive.
const DefaultBudget = 50

// Connectivity selects the neighbor set of the breadth-first expansion.
type Connectivity int

const (
	// Eight expands to all 8 surrounding cells, so distance is Chebyshev.
	Eight Connectivity = 8
	// Four expands to orthogonal neighbors only, so distance is Manhattan.
	Four Connectivity = 4
)

// ParseConnectivity converts 4 or 8 into a Connectivity.
func ParseConnectivity(n int) (Connectivity, error) {
	switch n {
	case 4:
		return Four, nil
	case 8:
		return Eight, nil
	default:
		return 0, fmt.Errorf("locate: connectivity must be 4 or 8, got %d", n)
	}
}

func (c Connectivity) offsets() []core.Coord {
	if c == Four {
		return core.Offsets4[:]
	}
	return core.Offsets8[:]
}

// Options bounds the search.
type Options struct {
	Budget       int // maximum BFS distance from the query
	Connectivity Connectivity
}

// Result is the outcome of a lookup. Found is false when no walkable cell
// lies within the budget; Coord is then meaningless.
type Result struct {
	Coord    core.Coord
	Found    bool
	Distance int // BFS distance from the query to Coord
	Levels   int // deepest ring dequeued
}

// Nearest returns q itself when it is an in-bounds walkable cell, otherwise
// the first walkable cell reached by a breadth-first expansion from q.
// Expansion walks through blocked and out-of-bounds coordinates so queries just
// outside the grid can still reach it. Neighbor order is fixed, so ties
// always resolve the same way.
func Nearest(g *core.Grid, q core.Coord, opts Options) Result {
	if g.Walkable(q) {
		return Result{Coord: q, Found: true}
	}

	budget := opts.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	offsets := opts.Connectivity.offsets()

	dist := map[core.Coord]int{q: 0}
	queue := []core.Coord{q}
	levels := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[cur]
		levels = max(levels, d)

		if g.Walkable(cur) {
			return Result{Coord: cur, Found: true, Distance: d, Levels: levels}
		}
		if d == budget {
			continue
		}
		for _, off := range offsets {
			next := cur.Add(off.Row, off.Col)
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = d + 1
			queue = append(queue, next)
		}
	}
	return Result{Levels: levels}
}
