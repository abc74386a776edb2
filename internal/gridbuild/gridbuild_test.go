package gridbuild_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/gridpath/internal/astar"
	"github.com/vovakirdan/gridpath/internal/core"
	"github.com/vovakirdan/gridpath/internal/gridbuild"
	"github.com/vovakirdan/gridpath/internal/registry"
)

func seedPtr(v int64) *int64 { return &v }

func TestRandomWithoutWallsIsOpen(t *testing.T) {
	g, err := gridbuild.Random(gridbuild.RandomSpec{
		Rows: 12, Cols: 9, WallProbability: 0, Seed: seedPtr(3),
		Start: core.C(0, 0), Goal: core.C(11, 8),
	})
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if got := g.WalkableCount(); got != 12*9 {
		t.Fatalf("expected every cell walkable, got %d", got)
	}

	res, err := astar.Solve(context.Background(), g, core.C(0, 0), core.C(11, 8))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if want := core.C(0, 0).Manhattan(core.C(11, 8)) + 1; res.Path.Len() != want {
		t.Errorf("expected %d cells, got %d", want, res.Path.Len())
	}
}

func TestRandomAllWallsKeepsEndpoints(t *testing.T) {
	start, goal := core.C(2, 3), core.C(7, 1)
	g, err := gridbuild.Random(gridbuild.RandomSpec{
		Rows: 8, Cols: 8, WallProbability: 1, Seed: seedPtr(1),
		Start: start, Goal: goal,
	})
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if g.WalkableCount() != 2 || !g.Walkable(start) || !g.Walkable(goal) {
		t.Errorf("expected only the endpoints walkable:\n%s", g)
	}
}

func TestRandomSameSeedSameGrid(t *testing.T) {
	spec := gridbuild.RandomSpec{
		Rows: 30, Cols: 40, WallProbability: 0.3, Seed: seedPtr(42),
		Start: core.C(0, 0), Goal: core.C(29, 39),
	}
	a, err := gridbuild.Random(spec)
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	b, _ := gridbuild.Random(spec)
	if !a.Equal(b) {
		t.Error("same seed produced different grids")
	}

	spec.Seed = seedPtr(43)
	c, _ := gridbuild.Random(spec)
	if a.Equal(c) {
		t.Error("different seeds produced identical grids")
	}
}

func TestRandomRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec gridbuild.RandomSpec
	}{
		{"negative probability", gridbuild.RandomSpec{Rows: 3, Cols: 3, WallProbability: -0.1}},
		{"probability above one", gridbuild.RandomSpec{Rows: 3, Cols: 3, WallProbability: 1.5}},
		{"probability not a number", gridbuild.RandomSpec{Rows: 3, Cols: 3, WallProbability: math.NaN()}},
		{"zero rows", gridbuild.RandomSpec{Rows: 0, Cols: 3}},
		{"goal outside", gridbuild.RandomSpec{Rows: 3, Cols: 3, Goal: core.C(3, 0)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gridbuild.Random(tc.spec)
			var invalid *core.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
		})
	}
}

// splitImage is dark on the left half and light on the right half.
func splitImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= w/2 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestFromImageFixedThreshold(t *testing.T) {
	opts := gridbuild.DefaultOptions()
	opts.Rows, opts.Cols = 0, 0

	g, err := gridbuild.FromImage(splitImage(4, 2), opts)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	want := core.MustParseGrid(`
		##..
		##..
	`)
	if !g.Equal(want) {
		t.Errorf("unexpected grid:\n%s\nwant:\n%s", g, want)
	}

	opts.Invert = true
	inv, _ := gridbuild.FromImage(splitImage(4, 2), opts)
	if diff := cmp.Diff(core.MustParseGrid("..##\n..##"), inv); diff != "" {
		t.Errorf("inverted grid mismatch (-want +got):\n%s", diff)
	}
}

func TestFromImageResizes(t *testing.T) {
	opts := gridbuild.DefaultOptions()
	opts.Rows, opts.Cols = 5, 8
	opts.Interpolation = gridbuild.InterpolationNearest

	g, err := gridbuild.FromImage(splitImage(64, 40), opts)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if g.Rows != 5 || g.Cols != 8 {
		t.Fatalf("expected 5x8, got %dx%d", g.Rows, g.Cols)
	}
	if g.Walkable(core.C(2, 0)) || !g.Walkable(core.C(2, 7)) {
		t.Errorf("expected dark left and light right:\n%s", g)
	}
}

func TestFromImageAdaptiveThreshold(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 9, 9))
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	img.SetGray(4, 4, color.Gray{Y: 10})

	opts := gridbuild.Options{Mode: gridbuild.ThresholdAdaptive, ThresholdValue: 5, AdaptiveBlock: 5}
	g, err := gridbuild.FromImage(img, opts)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if g.Walkable(core.C(4, 4)) {
		t.Error("dark pixel inside a uniform field should be blocked")
	}
	if g.WalkableCount() != 80 {
		t.Errorf("expected 80 walkable cells, got %d:\n%s", g.WalkableCount(), g)
	}
}

func TestUnknownThresholdMode(t *testing.T) {
	_, err := gridbuild.FromImage(splitImage(2, 2), gridbuild.Options{Mode: "otsu"})
	var invalid *core.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := gridbuild.Decode(strings.NewReader("definitely not an image"))
	var invalid *core.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestFromFile(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, splitImage(6, 3)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "maze.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	opts := gridbuild.DefaultOptions()
	opts.Rows, opts.Cols = 0, 0
	g, err := gridbuild.FromFile(path, opts)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if g.Rows != 3 || g.Cols != 6 || g.WalkableCount() != 9 {
		t.Errorf("unexpected grid:\n%s", g)
	}

	if _, err := gridbuild.FromFile(filepath.Join(t.TempDir(), "missing.png"), opts); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCloseRemovesSpecks(t *testing.T) {
	g := core.MustParseGrid(`
		.....
		.....
		..#..
		.....
		.....
	`)
	if got := gridbuild.Close(g); got.WalkableCount() != 25 {
		t.Errorf("speck survived closing:\n%s", got)
	}
}

func TestCloseKeepsSolidBlocks(t *testing.T) {
	g := core.MustParseGrid(`
		.......
		.......
		..###..
		..###..
		..###..
		.......
		.......
	`)
	if got := gridbuild.Close(g); !got.Equal(g) {
		t.Errorf("closing changed a solid block:\n%s", got)
	}
}

func TestMazeIsConnected(t *testing.T) {
	g, start, goal, err := gridbuild.Maze(gridbuild.MazeSpec{Rows: 21, Cols: 31, Seed: seedPtr(5)})
	if err != nil {
		t.Fatalf("Maze failed: %v", err)
	}
	if start != core.C(1, 1) || goal != core.C(19, 29) {
		t.Errorf("unexpected endpoints %v %v", start, goal)
	}

	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := core.C(r, c)
			if !g.Walkable(cell) {
				continue
			}
			if _, ok := astar.ShortestLength(g, start, cell); !ok {
				t.Fatalf("corridor cell %v is not connected to the start", cell)
			}
		}
	}

	again, _, _, _ := gridbuild.Maze(gridbuild.MazeSpec{Rows: 21, Cols: 31, Seed: seedPtr(5)})
	if !g.Equal(again) {
		t.Error("same seed produced different mazes")
	}
}

func TestMazeTooSmall(t *testing.T) {
	if _, _, _, err := gridbuild.Maze(gridbuild.MazeSpec{Rows: 2, Cols: 9}); err == nil {
		t.Error("expected an error for a 2-row maze")
	}
}

func TestLoadGridFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "corridor.yaml")
	yamlData := `name: Corridor
rows:
  - "..#"
  - "#.."
start: {row: 0, col: 0}
end: {row: 1, col: 2}
`
	if err := os.WriteFile(yamlPath, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}
	txtPath := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(txtPath, []byte("..#\n#..\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	gf, err := gridbuild.LoadGridFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadGridFile(yaml) failed: %v", err)
	}
	if gf.ID != "corridor" || gf.Name != "Corridor" {
		t.Errorf("unexpected id/name %q %q", gf.ID, gf.Name)
	}
	if gf.Start == nil || *gf.Start != core.C(0, 0) || gf.End == nil || *gf.End != core.C(1, 2) {
		t.Errorf("unexpected endpoints %v %v", gf.Start, gf.End)
	}

	plain, err := gridbuild.LoadGridFile(txtPath)
	if err != nil {
		t.Fatalf("LoadGridFile(txt) failed: %v", err)
	}
	if !plain.Grid.Equal(gf.Grid) {
		t.Errorf("text and yaml grids differ:\n%s\n%s", plain.Grid, gf.Grid)
	}
	if plain.Start != nil {
		t.Error("plain text grids carry no endpoints")
	}

	if _, err := gridbuild.LoadGridFile(filepath.Join(dir, "grid.json")); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}

func TestLoadGridFileRejectsEmptyGrids(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"empty.txt":   "",
		"blank.grid":  "\n\n",
		"norows.yaml": "name: Empty\n",
		"blank.yaml":  "rows:\n  - \"\"\n  - \"  \"\n",
	}

	for name, data := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
				t.Fatal(err)
			}
			gf, err := gridbuild.LoadGridFile(path)
			var invalid *core.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v (grid %v)", err, gf.Grid)
			}
		})
	}
}

func TestRegisteredSources(t *testing.T) {
	got := registry.List()
	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	if diff := cmp.Diff([]string{"maze", "random"}, ids); diff != "" {
		t.Fatalf("sources mismatch (-want +got):\n%s", diff)
	}

	src, err := registry.Create("random")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	a, err := src.Generate(registry.Params{Rows: 10, Cols: 10, WallProbability: 0.3, Seed: 9})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, _ := src.Generate(registry.Params{Rows: 10, Cols: 10, WallProbability: 0.3, Seed: 9})
	if !a.Grid.Equal(b.Grid) || a.Goal != core.C(9, 9) {
		t.Error("random source is not deterministic or picked the wrong goal")
	}

	if _, err := registry.Create("nope"); err == nil {
		t.Error("expected an error for an unknown source")
	}
}

func TestSaveGridFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := core.MustParseGrid("..#\n#..\n...")
	start, end := core.C(0, 0), core.C(2, 2)
	gf := gridbuild.GridFile{
		ID:       "fixture",
		Name:     "Fixture",
		Grid:     g,
		Start:    &start,
		End:      &end,
		Metadata: map[string]string{"seed": "7"},
	}

	for _, name := range []string{"g.yaml", "g.txt"} {
		path := filepath.Join(dir, name)
		if err := gridbuild.SaveGridFile(path, gf); err != nil {
			t.Fatalf("SaveGridFile(%s) failed: %v", name, err)
		}
		got, err := gridbuild.LoadGridFile(path)
		if err != nil {
			t.Fatalf("LoadGridFile(%s) failed: %v", name, err)
		}
		if !got.Grid.Equal(g) {
			t.Errorf("%s: grid changed:\n%s", name, got.Grid)
		}
		if name == "g.yaml" {
			if got.Start == nil || *got.Start != start || got.End == nil || *got.End != end {
				t.Errorf("endpoints lost: %v %v", got.Start, got.End)
			}
			if got.Metadata["seed"] != "7" || got.Name != "Fixture" {
				t.Errorf("metadata lost: %+v", got)
			}
		}
	}

	if err := gridbuild.SaveGridFile(filepath.Join(dir, "g.png"), gf); err == nil {
		t.Error("expected an error for an image extension")
	}
}
