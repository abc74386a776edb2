// Package gridbuild turns images, text/YAML grid files and procedural
// descriptions into core.Grid values.
package gridbuild

import (
	"fmt"
	"image"
	_ "image/gif" // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png" // PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder
	"golang.org/x/image/draw"

	"github.com/vovakirdan/gridpath/internal/core"
)

// ThresholdMode selects how grayscale pixels are classified.
type ThresholdMode string

const (
	// ThresholdFixed marks a pixel walkable when its intensity is above ThresholdValue.
	ThresholdFixed ThresholdMode = "fixed"
	// ThresholdAdaptive marks a pixel walkable when its intensity is above the
	// mean of its AdaptiveBlock neighborhood minus ThresholdValue.
	ThresholdAdaptive ThresholdMode = "adaptive"
)

// Interpolation selects the resampling kernel used when resizing.
type Interpolation string

const (
	InterpolationNearest  Interpolation = "nearest"
	InterpolationBilinear Interpolation = "bilinear"
)

// Options configures image binarization.
type Options struct {
	Rows, Cols     int // target size; 0 keeps the source dimension
	Mode           ThresholdMode
	ThresholdValue int
	AdaptiveBlock  int // odd window size for adaptive mode
	Invert         bool
	NoiseCleanup   bool
	Interpolation  Interpolation
}

// Default threshold values per mode.
const (
	DefaultFixedCutoff    = 128
	DefaultAdaptiveOffset = 7
)

// DefaultThreshold returns the threshold value mode uses when none is configured.
func DefaultThreshold(mode ThresholdMode) int {
	if mode == ThresholdAdaptive {
		return DefaultAdaptiveOffset
	}
	return DefaultFixedCutoff
}

// DefaultOptions mirrors a plain black and white maze scan: 100x100 cells,
// fixed cutoff at mid-gray, light pixels walkable, no cleanup.
func DefaultOptions() Options {
	return Options{
		Rows:           100,
		Cols:           100,
		Mode:           ThresholdFixed,
		ThresholdValue: DefaultFixedCutoff,
		AdaptiveBlock:  11,
		Interpolation:  InterpolationBilinear,
	}
}

// Decode reads an encoded PNG, JPEG, GIF or BMP image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &core.InvalidInputError{Reason: "cannot decode image", Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &core.InvalidInputError{Reason: "image has no pixels"}
	}
	return img, nil
}

// FromFile opens, decodes and binarizes an image file.
func FromFile(path string, opts Options) (*core.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.InvalidInputError{Reason: fmt.Sprintf("cannot open %s", path), Err: err}
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return FromImage(img, opts)
}

// FromImage converts img into a grid: grayscale, resize, threshold,
// optional inversion and optional morphological closing. The returned grid
// holds no reference to img.
func FromImage(img image.Image, opts Options) (*core.Grid, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, &core.InvalidInputError{Reason: "image is empty"}
	}
	if opts.Rows < 0 || opts.Cols < 0 {
		return nil, &core.InvalidInputError{Reason: fmt.Sprintf("target size %dx%d is negative", opts.Rows, opts.Cols)}
	}

	gray := Grayscale(img, opts.Rows, opts.Cols, opts.Interpolation)

	var g *core.Grid
	switch opts.Mode {
	case ThresholdFixed, "":
		g = thresholdFixed(gray, opts.ThresholdValue)
	case ThresholdAdaptive:
		block := opts.AdaptiveBlock
		if block < 3 {
			block = 3
		}
		if block%2 == 0 {
			block++
		}
		g = thresholdAdaptive(gray, block, opts.ThresholdValue)
	default:
		return nil, &core.InvalidInputError{Reason: fmt.Sprintf("unknown threshold mode %q", opts.Mode)}
	}

	if opts.Invert {
		invert(g)
	}
	if opts.NoiseCleanup {
		g = Close(g)
	}
	return g, nil
}

// Grayscale converts img to an 8-bit intensity buffer resized to rows x cols.
// A zero dimension keeps the source size along that axis.
func Grayscale(img image.Image, rows, cols int, interp Interpolation) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)

	if rows == 0 {
		rows = b.Dy()
	}
	if cols == 0 {
		cols = b.Dx()
	}
	if rows == b.Dy() && cols == b.Dx() {
		return gray
	}

	var scaler draw.Scaler = draw.BiLinear
	if interp == InterpolationNearest {
		scaler = draw.NearestNeighbor
	}
	dst := image.NewGray(image.Rect(0, 0, cols, rows))
	scaler.Scale(dst, dst.Bounds(), gray, gray.Bounds(), draw.Src, nil)
	return dst
}

func invert(g *core.Grid) {
	for i, cell := range g.Cells {
		if cell == core.Walkable {
			g.Cells[i] = core.Blocked
		} else {
			g.Cells[i] = core.Walkable
		}
	}
}
