package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color selects the style of a canvas cell.
type Color uint8

const (
	ColorDefault Color = iota
	ColorWall
	ColorFree
	ColorOpen
	ColorClosed
	ColorCurrent
	ColorPath
	ColorEndpoint
)

// colorStyles maps canvas colors to lipgloss styles (ANSI 256).
var colorStyles = map[Color]lipgloss.Style{
	ColorDefault:  lipgloss.NewStyle(),
	ColorWall:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	ColorFree:     lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
	ColorOpen:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	ColorClosed:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	ColorCurrent:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	ColorPath:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	ColorEndpoint: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
}

// Cell is one character of the canvas.
type Cell struct {
	Rune  rune
	Color Color
}

// Canvas is a fixed-size character buffer. Each grid cell maps to one
// canvas cell; drawing outside the canvas is ignored, so large grids clip.
type Canvas struct {
	width  int
	height int
	cells  []Cell
}

// NewCanvas creates a blank canvas.
func NewCanvas(width, height int) *Canvas {
	width, height = max(0, width), max(0, height)
	c := &Canvas{width: width, height: height, cells: make([]Cell, width*height)}
	c.Clear()
	return c
}

// Width returns the canvas width in characters.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in characters.
func (c *Canvas) Height() int { return c.height }

// Clear fills the canvas with uncolored spaces.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' '}
	}
}

// Set places a colored rune at (x, y).
func (c *Canvas) Set(x, y int, r rune, color Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = Cell{Rune: r, Color: color}
}

// Get returns the cell at (x, y), or a blank cell outside the canvas.
func (c *Canvas) Get(x, y int) Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Cell{Rune: ' '}
	}
	return c.cells[y*c.width+x]
}

// Render converts the canvas to a styled string.
// Adjacent cells with the same color share one style run to keep the
// number of ANSI sequences low.
func (c *Canvas) Render() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height*2 + c.height)

	for y := range c.height {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.width {
			color := c.Get(x, y).Color

			var run strings.Builder
			for x < c.width {
				cell := c.Get(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
