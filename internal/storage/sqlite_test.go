package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/vovakirdan/gridpath/internal/config"
	"github.com/vovakirdan/gridpath/internal/core"
	"github.com/vovakirdan/gridpath/internal/engine"
	"github.com/vovakirdan/gridpath/internal/report"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(source, outcome string, length int) SolveRecord {
	g := core.NewGrid(5, 5)
	var path core.Path
	for c := 0; c < length; c++ {
		path = append(path, core.C(0, c))
	}
	end := core.C(0, max(0, length-1))
	r := report.NewReport(g, core.C(0, 0), end, path)
	return SolveRecord{
		RunID:      uuid.NewString(),
		Source:     source,
		Outcome:    outcome,
		Rows:       5,
		Cols:       5,
		Start:      core.C(0, 0),
		End:        end,
		PathLength: r.PathLength,
		Expanded:   length * 2,
		Efficiency: r.Efficiency,
		Elapsed:    1500 * time.Microsecond,
		Report:     r,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openStore(t)

	want := sampleRecord("maze.png", "solved", 4)
	id, err := store.SaveSolve(want)
	if err != nil {
		t.Fatalf("SaveSolve() failed: %v", err)
	}

	got, err := store.SolveByID(id)
	if err != nil {
		t.Fatalf("SolveByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("SolveByID() returned nil for a saved solve")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}

	want.ID = id
	want.CreatedAt = got.CreatedAt
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	byRun, err := store.SolveByRunID(want.RunID[:8])
	if err != nil || byRun == nil || byRun.ID != id {
		t.Errorf("SolveByRunID() = %v, %v", byRun, err)
	}
}

func TestStoreMissingSolve(t *testing.T) {
	store := openStore(t)

	got, err := store.SolveByID(42)
	if err != nil || got != nil {
		t.Errorf("expected nil, nil for a missing solve, got %v, %v", got, err)
	}
	got, err = store.SolveByRunID("nope")
	if err != nil || got != nil {
		t.Errorf("expected nil, nil for a missing run, got %v, %v", got, err)
	}
}

func TestSolveByRunIDMatchesLiterally(t *testing.T) {
	store := openStore(t)

	rec := sampleRecord("grid", "solved", 3)
	rec.RunID = "abc-123"
	if _, err := store.SaveSolve(rec); err != nil {
		t.Fatalf("SaveSolve() failed: %v", err)
	}

	for _, query := range []string{"_bc", "%", "a_c", "abc\\"} {
		got, err := store.SolveByRunID(query)
		if err != nil || got != nil {
			t.Errorf("SolveByRunID(%q) = %v, %v; want no match", query, got, err)
		}
	}
	if got, err := store.SolveByRunID("abc-"); err != nil || got == nil || got.RunID != "abc-123" {
		t.Errorf("SolveByRunID(prefix) = %v, %v", got, err)
	}
	for _, query := range []string{"", "  "} {
		if _, err := store.SolveByRunID(query); err == nil {
			t.Errorf("SolveByRunID(%q): expected an error", query)
		}
	}
}

func TestStoreRecentSolvesLimit(t *testing.T) {
	store := openStore(t)

	for i := 0; i < 8; i++ {
		if _, err := store.SaveSolve(sampleRecord("grid", "solved", i+1)); err != nil {
			t.Fatalf("SaveSolve() failed: %v", err)
		}
	}

	recent, err := store.RecentSolves(5)
	if err != nil {
		t.Fatalf("RecentSolves() failed: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("Expected 5 solves, got %d", len(recent))
	}
	if recent[0].PathLength != 8 || recent[4].PathLength != 4 {
		t.Errorf("expected newest first, got lengths %d..%d", recent[0].PathLength, recent[4].PathLength)
	}
}

func TestStoreStats(t *testing.T) {
	store := openStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Count != 0 || stats.Solved != 0 || !stats.LastSolved.IsZero() {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	for _, rec := range []SolveRecord{
		sampleRecord("a", "solved", 2),
		sampleRecord("b", "solved", 4),
		sampleRecord("c", "no path", 0),
	} {
		if _, err := store.SaveSolve(rec); err != nil {
			t.Fatalf("SaveSolve() failed: %v", err)
		}
	}

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Count != 3 || stats.Solved != 2 {
		t.Errorf("expected 3 solves with 2 solved, got %+v", stats)
	}
	if stats.AvgPathLength != 3 {
		t.Errorf("expected average length 3, got %v", stats.AvgPathLength)
	}
	if stats.LastSolved.IsZero() {
		t.Error("LastSolved was not set")
	}
}

func TestStoreClearSolves(t *testing.T) {
	store := openStore(t)

	if _, err := store.SaveSolve(sampleRecord("a", "solved", 3)); err != nil {
		t.Fatalf("SaveSolve() failed: %v", err)
	}
	if err := store.ClearSolves(); err != nil {
		t.Fatalf("ClearSolves() failed: %v", err)
	}

	recent, err := store.RecentSolves(10)
	if err != nil {
		t.Fatalf("RecentSolves() failed: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("Expected 0 solves after clear, got %d", len(recent))
	}
}

func TestStoreRecordsEngineSolves(t *testing.T) {
	store := openStore(t)
	solver := engine.NewSolver(config.Default(), nil, engine.WithRecorder(store))

	sol, err := solver.SolveGrid(context.Background(), "open", core.NewGrid(4, 4), core.C(0, 0), core.C(3, 3))
	if err != nil {
		t.Fatalf("SolveGrid() failed: %v", err)
	}

	got, err := store.SolveByRunID(sol.RunID)
	if err != nil || got == nil {
		t.Fatalf("solve was not recorded: %v, %v", got, err)
	}
	if got.Outcome != string(engine.OutcomeSolved) || got.PathLength != 7 {
		t.Errorf("unexpected record %+v", got)
	}
	if diff := cmp.Diff(sol.Result.Path, got.Report.CorePath()); diff != "" {
		t.Errorf("stored path mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := Open("~/nested/deep/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	home, _ := os.UserHomeDir()
	if _, err := os.Stat(filepath.Join(home, "nested", "deep", "test.db")); os.IsNotExist(err) {
		t.Error("Database file was not created under the home directory")
	}
}
