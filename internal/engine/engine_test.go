package engine_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vovakirdan/gridpath/internal/astar"
	"github.com/vovakirdan/gridpath/internal/config"
	"github.com/vovakirdan/gridpath/internal/core"
	"github.com/vovakirdan/gridpath/internal/engine"
)

type memRecorder struct {
	mu      sync.Mutex
	records []engine.Record
	err     error
}

func (m *memRecorder) RecordSolve(rec engine.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return m.err
}

func newSolver(t *testing.T, mutate func(*config.Config), opts ...engine.Option) *engine.Solver {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return engine.NewSolver(cfg, nil, opts...)
}

func TestSolveGridOutcomes(t *testing.T) {
	blocked := core.NewGrid(4, 4)
	for i := range blocked.Cells {
		blocked.Cells[i] = core.Blocked
	}

	tests := []struct {
		name       string
		grid       *core.Grid
		start, end core.Coord
		want       engine.Outcome
		wantStart  core.Coord
		wantLength int
	}{
		{
			name:  "open grid",
			grid:  core.NewGrid(3, 3),
			start: core.C(0, 0), end: core.C(2, 2),
			want: engine.OutcomeSolved, wantStart: core.C(0, 0), wantLength: 5,
		},
		{
			name: "blocked start moves to neighbor",
			grid: core.MustParseGrid(`
				#..
				...
				...
			`),
			start: core.C(0, 0), end: core.C(2, 2),
			want: engine.OutcomeSolved, wantStart: core.C(0, 1), wantLength: 4,
		},
		{
			name: "wall splits grid",
			grid: core.MustParseGrid(`
				.#.
				.#.
				.#.
			`),
			start: core.C(0, 0), end: core.C(2, 2),
			want: engine.OutcomeNoPath, wantStart: core.C(0, 0),
		},
		{
			name:  "nothing walkable",
			grid:  blocked,
			start: core.C(0, 0), end: core.C(3, 3),
			want: engine.OutcomeNoEndpoint, wantStart: core.C(0, 0),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &memRecorder{}
			s := newSolver(t, nil, engine.WithRecorder(rec))

			sol, err := s.SolveGrid(context.Background(), tc.name, tc.grid, tc.start, tc.end)
			if err != nil {
				t.Fatalf("SolveGrid failed: %v", err)
			}
			if sol.Outcome != tc.want {
				t.Errorf("expected outcome %q, got %q", tc.want, sol.Outcome)
			}
			if sol.Start != tc.wantStart {
				t.Errorf("expected start %v, got %v", tc.wantStart, sol.Start)
			}
			if sol.Report.PathLength != tc.wantLength {
				t.Errorf("expected length %d, got %d", tc.wantLength, sol.Report.PathLength)
			}
			if len(rec.records) != 1 || rec.records[0].Outcome != tc.want || rec.records[0].RunID != sol.RunID {
				t.Errorf("unexpected records %+v", rec.records)
			}
		})
	}
}

func TestRecorderFailureDoesNotFailSolve(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	s := newSolver(t, nil, engine.WithRecorder(rec))

	sol, err := s.SolveGrid(context.Background(), "open", core.NewGrid(2, 2), core.C(0, 0), core.C(1, 1))
	if err != nil || sol.Outcome != engine.OutcomeSolved {
		t.Fatalf("expected a solved outcome, got %q, %v", sol.Outcome, err)
	}
}

func TestStepLimitFromConfig(t *testing.T) {
	s := newSolver(t, func(c *config.Config) { c.Search.StepLimit = 3 })

	_, err := s.SolveGrid(context.Background(), "big", core.NewGrid(20, 20), core.C(0, 0), core.C(19, 19))
	if !errors.Is(err, astar.ErrStepLimit) {
		t.Fatalf("expected ErrStepLimit, got %v", err)
	}
}

func TestObserverIsForwarded(t *testing.T) {
	s := newSolver(t, nil)
	steps := 0
	_, err := s.SolveGrid(context.Background(), "open", core.NewGrid(3, 3), core.C(0, 0), core.C(2, 2),
		astar.WithObserver(func(astar.Snapshot) { steps++ }))
	if err != nil {
		t.Fatalf("SolveGrid failed: %v", err)
	}
	if steps == 0 {
		t.Error("observer was never called")
	}
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for y := 0; y < 8; y++ {
		img.SetGray(5, y, color.Gray{})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSolveFile(t *testing.T) {
	dir := t.TempDir()
	s := newSolver(t, func(c *config.Config) { c.Grid.TargetSize = config.Size{} })

	sol, err := s.SolveFile(context.Background(), writePNG(t, dir, "wall.png"), nil, nil)
	if err != nil {
		t.Fatalf("SolveFile(png) failed: %v", err)
	}
	if sol.Outcome != engine.OutcomeSolved || sol.End != core.C(9, 9) {
		t.Fatalf("unexpected solution: %q end %v", sol.Outcome, sol.End)
	}
	if err := sol.Result.Path.Validate(sol.Grid, sol.Start, sol.End); err != nil {
		t.Errorf("invalid path: %v", err)
	}
	want, _ := astar.ShortestLength(sol.Grid, sol.Start, sol.End)
	if sol.Report.PathLength != want {
		t.Errorf("expected optimal length %d, got %d", want, sol.Report.PathLength)
	}

	gridPath := filepath.Join(dir, "g.yaml")
	data := "rows:\n  - \"...\"\n  - \".#.\"\nstart: {row: 1, col: 0}\nend: {row: 1, col: 2}\n"
	if err := os.WriteFile(gridPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	sol, err = s.SolveFile(context.Background(), gridPath, nil, nil)
	if err != nil {
		t.Fatalf("SolveFile(yaml) failed: %v", err)
	}
	if sol.Start != core.C(1, 0) || sol.Report.PathLength != 5 {
		t.Errorf("file endpoints not used: start %v length %d", sol.Start, sol.Report.PathLength)
	}

	override := core.C(0, 0)
	sol, _ = s.SolveFile(context.Background(), gridPath, &override, nil)
	if sol.Start != override {
		t.Errorf("explicit start ignored, got %v", sol.Start)
	}

	if _, err := s.SolveFile(context.Background(), filepath.Join(dir, "missing.png"), nil, nil); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSolveGeneratedIsDeterministic(t *testing.T) {
	s := newSolver(t, func(c *config.Config) { c.Generator.Size = config.Size{Rows: 21, Cols: 21} })

	for _, name := range []string{"random", "maze"} {
		t.Run(name, func(t *testing.T) {
			a, err := s.SolveGenerated(context.Background(), name, 11)
			if err != nil {
				t.Fatalf("SolveGenerated failed: %v", err)
			}
			b, _ := s.SolveGenerated(context.Background(), name, 11)
			if !a.Grid.Equal(b.Grid) || a.Report.PathLength != b.Report.PathLength {
				t.Error("same seed produced different solves")
			}
			if a.Source != name+"#11" {
				t.Errorf("unexpected source %q", a.Source)
			}
		})
	}

	if _, err := s.SolveGenerated(context.Background(), "spiral", 1); err == nil {
		t.Error("expected an error for an unknown source")
	}
}

func TestSolveBatchKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	s := newSolver(t, func(c *config.Config) { c.Grid.TargetSize = config.Size{} })

	paths := []string{
		writePNG(t, dir, "a.png"),
		filepath.Join(dir, "missing.png"),
		writePNG(t, dir, "c.png"),
	}
	items, err := s.SolveBatch(context.Background(), paths, 2)
	if err != nil {
		t.Fatalf("SolveBatch failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, item := range items {
		if item.Path != paths[i] {
			t.Errorf("item %d is %s, want %s", i, item.Path, paths[i])
		}
	}
	if items[0].Err != nil || items[2].Err != nil {
		t.Errorf("unexpected errors: %v, %v", items[0].Err, items[2].Err)
	}
	if items[1].Err == nil {
		t.Error("expected an error for the missing file")
	}
}

func TestSolveBatchCancelled(t *testing.T) {
	s := newSolver(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.SolveBatch(ctx, []string{"a.png", "b.png"}, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSolveSeeds(t *testing.T) {
	s := newSolver(t, func(c *config.Config) { c.Generator.Size = config.Size{Rows: 10, Cols: 10} })

	items, err := s.SolveSeeds(context.Background(), "random", []int64{1, 2, 3}, 3)
	if err != nil {
		t.Fatalf("SolveSeeds failed: %v", err)
	}
	for i, item := range items {
		if item.Err != nil {
			t.Errorf("seed %d: %v", i+1, item.Err)
		}
	}
	if items[2].Path != "random#3" {
		t.Errorf("unexpected order: %s", items[2].Path)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := engine.NewMetrics(reg)
	s := newSolver(t, nil, engine.WithMetrics(m))

	for i := 0; i < 2; i++ {
		if _, err := s.SolveGrid(context.Background(), "open", core.NewGrid(3, 3), core.C(0, 0), core.C(2, 2)); err != nil {
			t.Fatal(err)
		}
	}
	wall := core.MustParseGrid(".#.\n.#.")
	if _, err := s.SolveGrid(context.Background(), "wall", wall, core.C(0, 0), core.C(0, 2)); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(m.Solves.WithLabelValues(string(engine.OutcomeSolved))); got != 2 {
		t.Errorf("expected 2 solved, got %v", got)
	}
	if got := testutil.ToFloat64(m.Solves.WithLabelValues(string(engine.OutcomeNoPath))); got != 1 {
		t.Errorf("expected 1 no path, got %v", got)
	}
}
