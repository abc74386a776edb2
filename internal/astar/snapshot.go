package astar

import (
	"sort"

	"github.com/vovakirdan/gridpath/internal/core"
)

// Snapshot is a read-only view of the search after one expansion.
// It is only valid until the next Step; use Frame to keep a copy.
type Snapshot struct {
	s *Stepper
}

// Frame is a detached copy of a Snapshot, safe to retain and render later.
// Open and Closed are sorted in row-major order.
type Frame struct {
	Step    int
	Current core.Coord
	Open    []core.Coord
	Closed  []core.Coord
	Done    bool
	Found   bool
	Path    core.Path
}

// Step returns the number of expansions performed so far.
func (v Snapshot) Step() int {
	return v.s.expanded
}

// Current returns the coordinate popped by the latest expansion.
func (v Snapshot) Current() core.Coord {
	return v.s.current
}

// Done reports whether the search has terminated.
func (v Snapshot) Done() bool {
	return v.s.done
}

// IsClosed reports whether c has been finalized.
func (v Snapshot) IsClosed(c core.Coord) bool {
	return v.s.closed[c]
}

// IsOpen reports whether c is discovered but not yet finalized. Every
// discovered coordinate still has a live frontier entry until it is closed.
func (v Snapshot) IsOpen(c core.Coord) bool {
	_, seen := v.s.gScore[c]
	return seen && !v.s.closed[c]
}

// ClosedCount returns the size of the closed set.
func (v Snapshot) ClosedCount() int {
	return len(v.s.closed)
}

// OpenCount returns the number of discovered, unfinalized coordinates.
func (v Snapshot) OpenCount() int {
	n := 0
	for c := range v.s.gScore {
		if !v.s.closed[c] {
			n++
		}
	}
	return n
}

// GScore returns the best known cost from start to c.
func (v Snapshot) GScore(c core.Coord) (int, bool) {
	g, ok := v.s.gScore[c]
	return g, ok
}

// Frame copies the view into a detached Frame.
func (v Snapshot) Frame() Frame {
	f := Frame{
		Step:    v.s.expanded,
		Current: v.s.current,
		Done:    v.s.done,
		Found:   v.s.result.Found,
		Open:    make([]core.Coord, 0, len(v.s.gScore)),
		Closed:  make([]core.Coord, 0, len(v.s.closed)),
	}
	for c := range v.s.gScore {
		if v.s.closed[c] {
			f.Closed = append(f.Closed, c)
		} else {
			f.Open = append(f.Open, c)
		}
	}
	sortRowMajor(f.Open)
	sortRowMajor(f.Closed)
	if v.s.done && v.s.result.Found {
		f.Path = append(core.Path(nil), v.s.result.Path...)
	}
	return f
}

func sortRowMajor(cs []core.Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Row != cs[j].Row {
			return cs[i].Row < cs[j].Row
		}
		return cs[i].Col < cs[j].Col
	})
}
