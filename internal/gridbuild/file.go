package gridbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/gridpath/internal/core"
)

// YAMLGrid is the on-disk layout of a hand-written grid file.
type YAMLGrid struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Rows     []string          `yaml:"rows"`
	Start    *YAMLCoord        `yaml:"start,omitempty"`
	End      *YAMLCoord        `yaml:"end,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLCoord is a row/column pair.
type YAMLCoord struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// GridFile is a parsed grid plus the optional endpoints stored with it.
type GridFile struct {
	ID       string
	Name     string
	Grid     *core.Grid
	Start    *core.Coord
	End      *core.Coord
	Metadata map[string]string
}

// ParseYAML parses a YAML grid file.
func ParseYAML(data []byte) (GridFile, error) {
	var yg YAMLGrid
	if err := yaml.Unmarshal(data, &yg); err != nil {
		return GridFile{}, &core.InvalidInputError{Reason: "yaml unmarshal", Err: err}
	}
	if len(yg.Rows) == 0 {
		return GridFile{}, &core.InvalidInputError{Reason: "grid file has no rows"}
	}

	g, err := core.ParseGrid(strings.Join(yg.Rows, "\n"))
	if err != nil {
		return GridFile{}, err
	}

	gf := GridFile{ID: yg.ID, Name: yg.Name, Grid: g, Metadata: yg.Metadata}
	if yg.Start != nil {
		c := core.C(yg.Start.Row, yg.Start.Col)
		gf.Start = &c
	}
	if yg.End != nil {
		c := core.C(yg.End.Row, yg.End.Col)
		gf.End = &c
	}
	return gf, nil
}

// GridExtensions returns the extensions LoadGridFile understands.
func GridExtensions() []string {
	return []string{".yaml", ".yml", ".txt", ".grid"}
}

// IsGridFile reports whether path has a grid file extension.
func IsGridFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range GridExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// LoadGridFile reads a YAML grid file or a plain text grid of '.' and '#'.
func LoadGridFile(path string) (GridFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GridFile{}, &core.InvalidInputError{Reason: fmt.Sprintf("cannot read %s", path), Err: err}
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		gf, err := ParseYAML(data)
		if err != nil {
			return GridFile{}, err
		}
		if gf.ID == "" {
			gf.ID = id
		}
		return gf, nil
	case ".txt", ".grid":
		g, err := core.ParseGrid(string(data))
		if err != nil {
			return GridFile{}, err
		}
		return GridFile{ID: id, Name: id, Grid: g}, nil
	default:
		return GridFile{}, &core.InvalidInputError{Reason: fmt.Sprintf("unsupported grid extension %q", filepath.Ext(path))}
	}
}

// MarshalYAML encodes gf in the layout ParseYAML reads.
func (gf GridFile) MarshalYAML() (any, error) {
	if gf.Grid == nil {
		return nil, &core.InvalidInputError{Reason: "grid file has no grid"}
	}
	yg := YAMLGrid{
		ID:       gf.ID,
		Name:     gf.Name,
		Rows:     strings.Split(strings.TrimSuffix(gf.Grid.String(), "\n"), "\n"),
		Metadata: gf.Metadata,
	}
	if gf.Start != nil {
		yg.Start = &YAMLCoord{Row: gf.Start.Row, Col: gf.Start.Col}
	}
	if gf.End != nil {
		yg.End = &YAMLCoord{Row: gf.End.Row, Col: gf.End.Col}
	}
	return yg, nil
}

// SaveGridFile writes gf to path. The extension picks the format: YAML for
// .yaml and .yml, the bare '.'/'#' rows for .txt and .grid.
func SaveGridFile(path string, gf GridFile) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var err error
		if data, err = yaml.Marshal(gf); err != nil {
			return fmt.Errorf("gridbuild: encode %s: %w", path, err)
		}
	case ".txt", ".grid":
		if gf.Grid == nil {
			return &core.InvalidInputError{Reason: "grid file has no grid"}
		}
		data = []byte(gf.Grid.String())
	default:
		return &core.InvalidInputError{Reason: fmt.Sprintf("unsupported grid extension %q", filepath.Ext(path))}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("gridbuild: write %s: %w", path, err)
	}
	return nil
}
