package gridbuild

import (
	"image"

	"github.com/vovakirdan/gridpath/internal/core"
)

// thresholdFixed marks pixels brighter than cutoff as walkable.
func thresholdFixed(gray *image.Gray, cutoff int) *core.Grid {
	b := gray.Bounds()
	g := core.NewGrid(b.Dy(), b.Dx())
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if int(gray.GrayAt(b.Min.X+c, b.Min.Y+r).Y) <= cutoff {
				g.Cells[r*g.Cols+c] = core.Blocked
			}
		}
	}
	return g
}

// thresholdAdaptive marks a pixel walkable when it is brighter than the mean
// of the block x block window around it minus offset. Windows are clipped at
// the image border. Window sums come from a summed-area table.
func thresholdAdaptive(gray *image.Gray, block, offset int) *core.Grid {
	b := gray.Bounds()
	h, w := b.Dy(), b.Dx()

	// sat[(r+1)*(w+1)+(c+1)] = sum of pixels in [0..r] x [0..c]
	stride := w + 1
	sat := make([]int64, (h+1)*stride)
	for r := 0; r < h; r++ {
		var rowSum int64
		for c := 0; c < w; c++ {
			rowSum += int64(gray.GrayAt(b.Min.X+c, b.Min.Y+r).Y)
			sat[(r+1)*stride+c+1] = sat[r*stride+c+1] + rowSum
		}
	}

	half := block / 2
	g := core.NewGrid(h, w)
	for r := 0; r < h; r++ {
		r0, r1 := max(0, r-half), min(h-1, r+half)
		for c := 0; c < w; c++ {
			c0, c1 := max(0, c-half), min(w-1, c+half)
			sum := sat[(r1+1)*stride+c1+1] - sat[r0*stride+c1+1] - sat[(r1+1)*stride+c0] + sat[r0*stride+c0]
			area := int64((r1 - r0 + 1) * (c1 - c0 + 1))
			v := int64(gray.GrayAt(b.Min.X+c, b.Min.Y+r).Y)
			// v > mean - offset, kept in integers: v*area > sum - offset*area
			if v*area <= sum-int64(offset)*area {
				g.Cells[r*w+c] = core.Blocked
			}
		}
	}
	return g
}
