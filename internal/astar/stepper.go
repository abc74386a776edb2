package astar

import (
	"container/heap"

	"github.com/vovakirdan/gridpath/internal/core"
)

// Stepper runs the search one expansion at a time. Solve drives it to
// completion; the watch UI drives it frame by frame.
type Stepper struct {
	grid  *core.Grid
	start core.Coord
	goal  core.Coord

	open     frontier
	gScore   map[core.Coord]int
	cameFrom map[core.Coord]core.Coord
	closed   map[core.Coord]bool

	pushes   int
	expanded int
	current  core.Coord
	done     bool
	result   Result
}

// NewStepper validates both endpoints and seeds the frontier with start.
// A blocked or out-of-bounds endpoint yields *core.UnreachableEndpointError
// and no search state is allocated.
func NewStepper(g *core.Grid, start, goal core.Coord) (*Stepper, error) {
	if err := checkEndpoint(g, core.EndpointStart, start); err != nil {
		return nil, err
	}
	if err := checkEndpoint(g, core.EndpointEnd, goal); err != nil {
		return nil, err
	}

	s := &Stepper{
		grid:     g,
		start:    start,
		goal:     goal,
		open:     make(frontier, 0, 64),
		gScore:   map[core.Coord]int{start: 0},
		cameFrom: make(map[core.Coord]core.Coord),
		closed:   make(map[core.Coord]bool),
		current:  start,
	}
	s.push(start, 0)
	return s, nil
}

func checkEndpoint(g *core.Grid, which core.Endpoint, c core.Coord) error {
	if !g.InBounds(c) {
		return &core.UnreachableEndpointError{Endpoint: which, Coord: c, OutOfBounds: true}
	}
	if !g.Walkable(c) {
		return &core.UnreachableEndpointError{Endpoint: which, Coord: c}
	}
	return nil
}

// Heuristic is the Manhattan distance, admissible and consistent for
// unit-cost 4-connected grids.
func Heuristic(from, to core.Coord) int {
	return from.Manhattan(to)
}

func (s *Stepper) push(c core.Coord, g int) {
	heap.Push(&s.open, frontierItem{
		Node:  c,
		G:     g,
		F:     g + Heuristic(c, s.goal),
		Order: s.pushes,
	})
	s.pushes++
}

// Done reports whether the search reached a terminal state.
func (s *Stepper) Done() bool {
	return s.done
}

// Result returns the outcome. Only meaningful once Done is true.
func (s *Stepper) Result() Result {
	return s.result
}

// Expanded returns the number of nodes closed so far.
func (s *Stepper) Expanded() int {
	return s.expanded
}

// expandsNext reports whether the next Step would close a node. It drops
// stale entries from the top of the frontier; a goal pop or an exhausted
// frontier ends the search without an expansion.
func (s *Stepper) expandsNext() bool {
	if s.done {
		return false
	}
	for s.open.Len() > 0 && s.closed[s.open[0].Node] {
		heap.Pop(&s.open)
	}
	return s.open.Len() > 0 && s.open[0].Node != s.goal
}

// Step performs one expansion: it pops the best live frontier entry, closes
// it and relaxes its neighbors. Stale entries are skipped without counting as
// a step. The returned Snapshot views the state after the expansion and
// progressed is false once the search has terminated.
func (s *Stepper) Step() (snap Snapshot, progressed bool) {
	if s.done {
		return Snapshot{s: s}, false
	}

	for s.open.Len() > 0 {
		item := heap.Pop(&s.open).(frontierItem)
		if s.closed[item.Node] {
			continue
		}

		s.current = item.Node
		if item.Node == s.goal {
			s.finish(true)
			return Snapshot{s: s}, true
		}

		s.closed[item.Node] = true
		s.expanded++

		for _, d := range core.Offsets4 {
			next := item.Node.Add(d.Row, d.Col)
			if !s.grid.Walkable(next) || s.closed[next] {
				continue
			}
			tentative := item.G + 1
			if best, seen := s.gScore[next]; seen && tentative >= best {
				continue
			}
			s.gScore[next] = tentative
			s.cameFrom[next] = item.Node
			s.push(next, tentative)
		}
		return Snapshot{s: s}, true
	}

	s.finish(false)
	return Snapshot{s: s}, false
}

func (s *Stepper) finish(found bool) {
	s.done = true
	s.result = Result{Found: found, Expanded: s.expanded}
	if found {
		s.result.Path = s.reconstruct()
		s.result.Cost = s.gScore[s.goal]
	}
}

// reconstruct walks cameFrom backward from the goal and reverses the result.
func (s *Stepper) reconstruct() core.Path {
	current := s.goal
	path := core.Path{current}
	for current != s.start {
		prev, ok := s.cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
