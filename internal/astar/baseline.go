package astar

import "github.com/vovakirdan/gridpath/internal/core"

// ShortestLength returns the number of cells on a shortest 4-connected path
// between start and goal using plain breadth-first search, or 0 and false when
// the goal is unreachable. It shares no state with the A* search and serves as
// an independent check of its optimality.
func ShortestLength(g *core.Grid, start, goal core.Coord) (int, bool) {
	if !g.Walkable(start) || !g.Walkable(goal) {
		return 0, false
	}

	dist := map[core.Coord]int{start: 1}
	queue := []core.Coord{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			return dist[cur], true
		}
		for _, d := range core.Offsets4 {
			next := cur.Add(d.Row, d.Col)
			if _, seen := dist[next]; seen || !g.Walkable(next) {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return 0, false
}
