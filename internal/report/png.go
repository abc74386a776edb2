package report

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/vovakirdan/gridpath/internal/core"
)

// PathStyle selects how the path is drawn on the PNG overlay.
type PathStyle string

const (
	StyleLine   PathStyle = "line"
	StylePoints PathStyle = "points"
)

// ImageOptions controls RenderPNG.
type ImageOptions struct {
	Scale int // pixels per cell
	Style PathStyle
	Wall  color.Color
	Open  color.Color
	Trail color.Color
}

// DefaultImageOptions draws black walls, white floor and a red path line.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		Scale: 6,
		Style: StyleLine,
		Wall:  color.Black,
		Open:  color.White,
		Trail: color.RGBA{R: 220, G: 30, B: 30, A: 255},
	}
}

// RenderPNG draws the grid with the path overlaid and writes it as PNG.
// The start is marked green and the end blue.
func RenderPNG(w io.Writer, g *core.Grid, path core.Path, opts ImageOptions) error {
	if g.Rows == 0 || g.Cols == 0 {
		return fmt.Errorf("report: cannot render an empty grid")
	}
	def := DefaultImageOptions()
	if opts.Scale <= 0 {
		opts.Scale = def.Scale
	}
	if opts.Wall == nil {
		opts.Wall = def.Wall
	}
	if opts.Open == nil {
		opts.Open = def.Open
	}
	if opts.Trail == nil {
		opts.Trail = def.Trail
	}

	s := float64(opts.Scale)
	dc := gg.NewContext(g.Cols*opts.Scale, g.Rows*opts.Scale)
	dc.SetColor(opts.Open)
	dc.Clear()

	dc.SetColor(opts.Wall)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if !g.Walkable(core.C(r, c)) {
				dc.DrawRectangle(float64(c)*s, float64(r)*s, s, s)
			}
		}
	}
	dc.Fill()

	center := func(p core.Coord) (float64, float64) {
		return float64(p.Col)*s + s/2, float64(p.Row)*s + s/2
	}

	dc.SetColor(opts.Trail)
	switch opts.Style {
	case StylePoints:
		for _, p := range path {
			x, y := center(p)
			dc.DrawCircle(x, y, s/4)
		}
		dc.Fill()
	default:
		if len(path) > 1 {
			dc.SetLineWidth(max(1, s/2))
			dc.MoveTo(center(path[0]))
			for _, p := range path[1:] {
				dc.LineTo(center(p))
			}
			dc.Stroke()
		}
	}

	if len(path) > 0 {
		x, y := center(path[0])
		dc.SetColor(color.RGBA{G: 200, A: 255})
		dc.DrawCircle(x, y, s/2)
		dc.Fill()

		x, y = center(path[len(path)-1])
		dc.SetColor(color.RGBA{B: 230, A: 255})
		dc.DrawCircle(x, y, s/2)
		dc.Fill()
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("report: encode png: %w", err)
	}
	return nil
}
