package core

import "fmt"

// Coord represents a cell position on the grid.
// Row increases downward, Col increases to the right.
type Coord struct {
	Row int
	Col int
}

// C is a convenience constructor for Coord.
func C(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Add returns a new Coord offset by (dr, dc).
func (c Coord) Add(dr, dc int) Coord {
	return Coord{Row: c.Row + dr, Col: c.Col + dc}
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	return Abs(c.Row-other.Row) + Abs(c.Col-other.Col)
}

// Adjacent4 reports whether other differs by exactly one unit step along exactly one axis.
func (c Coord) Adjacent4(other Coord) bool {
	return c.Manhattan(other) == 1
}

// Offsets4 lists the orthogonal unit steps in expansion order: up, left, right, down.
var Offsets4 = [4]Coord{
	{Row: -1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
}

// Offsets8 lists the eight surrounding unit steps in row-major order.
var Offsets8 = [8]Coord{
	{Row: -1, Col: -1},
	{Row: -1, Col: 0},
	{Row: -1, Col: 1},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
	{Row: 1, Col: -1},
	{Row: 1, Col: 0},
	{Row: 1, Col: 1},
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
