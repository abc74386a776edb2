// Package report turns solve results into exportable summaries, text and
// image renderings and tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/gridpath/internal/core"
)

// Point is a coordinate serialized as [row, col].
type Point [2]int

// PointOf converts a coordinate.
func PointOf(c core.Coord) Point {
	return Point{c.Row, c.Col}
}

// Coord converts back to a coordinate.
func (p Point) Coord() core.Coord {
	return core.C(p[0], p[1])
}

// Report is the exported summary of one solve. Its serialized form is
// {maze_size, path_length, start, end, path, efficiency}.
type Report struct {
	MazeSize   [2]int  `json:"maze_size" yaml:"maze_size"`
	PathLength int     `json:"path_length" yaml:"path_length"`
	Start      Point   `json:"start" yaml:"start"`
	End        Point   `json:"end" yaml:"end"`
	Path       []Point `json:"path" yaml:"path"`
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`
}

// NewReport summarizes a solve. A nil path means no path was found: length
// and efficiency are then 0 and the path serializes as an empty list.
func NewReport(g *core.Grid, start, end core.Coord, path core.Path) Report {
	r := Report{
		MazeSize:   [2]int{g.Rows, g.Cols},
		PathLength: path.Len(),
		Start:      PointOf(start),
		End:        PointOf(end),
		Path:       make([]Point, len(path)),
	}
	for i, c := range path {
		r.Path[i] = PointOf(c)
	}
	r.Efficiency = Efficiency(start, end, path)
	return r
}

// Efficiency is the Manhattan distance between the endpoints divided by the
// number of cells on the path, or 0 when there is no path.
func Efficiency(start, end core.Coord, path core.Path) float64 {
	if len(path) == 0 {
		return 0
	}
	return float64(start.Manhattan(end)) / float64(len(path))
}

// CorePath returns the path as coordinates.
func (r Report) CorePath() core.Path {
	if len(r.Path) == 0 {
		return nil
	}
	path := make(core.Path, len(r.Path))
	for i, p := range r.Path {
		path[i] = p.Coord()
	}
	return path
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

// ReadJSON decodes a report written by WriteJSON.
func ReadJSON(rd io.Reader) (Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return Report{}, fmt.Errorf("report: decode json: %w", err)
	}
	return r, nil
}

// WriteYAML writes the report as YAML with the same keys as WriteJSON.
func WriteYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode yaml: %w", err)
	}
	return enc.Close()
}

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Write dispatches on format.
func Write(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}
