package gridbuild

import "github.com/vovakirdan/gridpath/internal/core"

// Close applies a morphological closing with a 3x3 structuring element to the
// walkable foreground: a dilation followed by an erosion. Isolated blocked
// specks inside open areas disappear while corridor shapes are preserved.
// Cells outside the grid count as walkable for the erosion so borders do not shrink.
func Close(g *core.Grid) *core.Grid {
	return erode(dilate(g))
}

func dilate(g *core.Grid) *core.Grid {
	out := core.NewGrid(g.Rows, g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := core.C(r, c)
			open := g.Walkable(cell)
			for _, d := range core.Offsets8 {
				if open {
					break
				}
				open = g.Walkable(cell.Add(d.Row, d.Col))
			}
			if !open {
				out.Set(cell, core.Blocked)
			}
		}
	}
	return out
}

func erode(g *core.Grid) *core.Grid {
	out := core.NewGrid(g.Rows, g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := core.C(r, c)
			open := g.Walkable(cell)
			for _, d := range core.Offsets8 {
				if !open {
					break
				}
				n := cell.Add(d.Row, d.Col)
				open = !g.InBounds(n) || g.Walkable(n)
			}
			if !open {
				out.Set(cell, core.Blocked)
			}
		}
	}
	return out
}
