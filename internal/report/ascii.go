package report

import (
	"strings"

	"github.com/vovakirdan/gridpath/internal/core"
)

// Glyphs used by RenderASCII.
const (
	GlyphWall  = '#'
	GlyphOpen  = '.'
	GlyphPath  = '*'
	GlyphStart = 'S'
	GlyphEnd   = 'E'
)

// RenderASCII draws the grid one character per cell with the path overlaid.
// Endpoints are drawn last so they stay visible on top of the path.
func RenderASCII(g *core.Grid, path core.Path, start, end core.Coord) string {
	canvas := make([][]rune, g.Rows)
	for r := range canvas {
		canvas[r] = make([]rune, g.Cols)
		for c := range canvas[r] {
			if g.Walkable(core.C(r, c)) {
				canvas[r][c] = GlyphOpen
			} else {
				canvas[r][c] = GlyphWall
			}
		}
	}

	put := func(c core.Coord, ch rune) {
		if g.InBounds(c) {
			canvas[c.Row][c.Col] = ch
		}
	}
	for _, c := range path {
		put(c, GlyphPath)
	}
	put(start, GlyphStart)
	put(end, GlyphEnd)

	var sb strings.Builder
	for r, row := range canvas {
		if r > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}
