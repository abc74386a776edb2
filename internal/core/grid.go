// Package core provides the fundamental grid types shared by the builder,
// locator, pathfinder and renderers. It has no third-party dependencies so
// the search code stays pure and testable.
package core

import (
	"fmt"
	"strings"
)

// Cell is the occupancy state of one grid cell.
type Cell uint8

const (
	Walkable Cell = iota
	Blocked
)

// String returns the single-character form used by ParseGrid and Grid.String.
func (c Cell) String() string {
	if c == Blocked {
		return "#"
	}
	return "."
}

// Grid is a binary occupancy grid.
// Cells are stored in row-major order: index = row*Cols + col.
// Dimensions never change after construction and search code only reads it.
type Grid struct {
	Rows  int
	Cols  int
	Cells []Cell
}

// NewGrid creates a grid of the given dimensions with every cell walkable.
func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Cell, rows*cols),
	}
}

// NewGridFromRows builds a grid from a slice of rows, true meaning walkable.
// All rows must have the same, non-zero length.
func NewGridFromRows(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &InvalidInputError{Reason: "grid has no cells"}
	}
	cols := len(rows[0])
	g := NewGrid(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("row %d has %d cells, expected %d", r, len(row), cols)}
		}
		for c, open := range row {
			if !open {
				g.Cells[r*cols+c] = Blocked
			}
		}
	}
	return g, nil
}

// ParseGrid parses a text grid where '#' is blocked and '.' is walkable.
// Blank lines and surrounding whitespace are ignored; text with no cells is
// rejected.
func ParseGrid(text string) (*Grid, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	rows := make([][]bool, len(lines))
	for r, line := range lines {
		rows[r] = make([]bool, 0, len(line))
		for _, ch := range line {
			switch ch {
			case '.':
				rows[r] = append(rows[r], true)
			case '#':
				rows[r] = append(rows[r], false)
			default:
				return nil, &InvalidInputError{Reason: fmt.Sprintf("unexpected character %q on line %d", ch, r+1)}
			}
		}
	}
	return NewGridFromRows(rows)
}

// MustParseGrid is like ParseGrid but panics on malformed input.
// Intended for tests and fixed fixtures.
func MustParseGrid(text string) *Grid {
	g, err := ParseGrid(text)
	if err != nil {
		panic(err)
	}
	return g
}

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Row*g.Cols + c.Col
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// At returns the cell at the given coordinate.
// Out-of-bounds coordinates report Blocked.
func (g *Grid) At(c Coord) Cell {
	if !g.InBounds(c) {
		return Blocked
	}
	return g.Cells[g.index(c)]
}

// Walkable returns true if the coordinate is in bounds and walkable.
func (g *Grid) Walkable(c Coord) bool {
	return g.InBounds(c) && g.Cells[g.index(c)] == Walkable
}

// Set sets the cell at the given coordinate.
// Only builders call Set; a grid handed to a solver is not modified.
func (g *Grid) Set(c Coord, cell Cell) {
	if g.InBounds(c) {
		g.Cells[g.index(c)] = cell
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{
		Rows:  g.Rows,
		Cols:  g.Cols,
		Cells: cells,
	}
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.Rows != other.Rows || g.Cols != other.Cols {
		return false
	}
	for i, cell := range g.Cells {
		if cell != other.Cells[i] {
			return false
		}
	}
	return true
}

// WalkableCount returns the number of walkable cells in the grid.
func (g *Grid) WalkableCount() int {
	count := 0
	for _, cell := range g.Cells {
		if cell == Walkable {
			count++
		}
	}
	return count
}

// Corners returns the top-left and bottom-right coordinates.
func (g *Grid) Corners() (Coord, Coord) {
	return C(0, 0), C(g.Rows-1, g.Cols-1)
}

// String renders the grid in the ParseGrid format, one row per line.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.Rows * (g.Cols + 1))
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			sb.WriteString(g.Cells[r*g.Cols+c].String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
