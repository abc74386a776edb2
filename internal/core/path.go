package core

import "fmt"

// Path is an ordered sequence of coordinates from start to end inclusive.
// A nil Path means no path exists.
type Path []Coord

// Len returns the number of cells on the path.
func (p Path) Len() int {
	return len(p)
}

// Steps returns the number of unit moves along the path.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Contains reports whether c lies on the path.
func (p Path) Contains(c Coord) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}

// Validate checks that the path runs from start to end over walkable,
// in-bounds cells with 4-connected consecutive steps.
func (p Path) Validate(g *Grid, start, end Coord) error {
	if len(p) == 0 {
		return fmt.Errorf("path is empty")
	}
	if p[0] != start {
		return fmt.Errorf("path starts at %v, expected %v", p[0], start)
	}
	if p[len(p)-1] != end {
		return fmt.Errorf("path ends at %v, expected %v", p[len(p)-1], end)
	}
	for i, c := range p {
		if !g.Walkable(c) {
			return fmt.Errorf("path cell %d at %v is not walkable", i, c)
		}
		if i > 0 && !p[i-1].Adjacent4(c) {
			return fmt.Errorf("path cells %d %v and %d %v are not adjacent", i-1, p[i-1], i, c)
		}
	}
	return nil
}
