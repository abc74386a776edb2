// Package storage provides SQLite-based persistence for solve history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gridpath/internal/core"
	"github.com/vovakirdan/gridpath/internal/engine"
	"github.com/vovakirdan/gridpath/internal/report"
)

// Store manages the SQLite database connection for solve history.
type Store struct {
	db *sql.DB
}

// SolveRecord represents a single stored solve.
type SolveRecord struct {
	ID         int64
	RunID      string
	Source     string
	Outcome    string
	Rows       int
	Cols       int
	Start      core.Coord
	End        core.Coord
	PathLength int
	Expanded   int
	Efficiency float64
	Elapsed    time.Duration
	Report     report.Report
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			outcome TEXT NOT NULL,
			grid_rows INTEGER NOT NULL,
			grid_cols INTEGER NOT NULL,
			start_row INTEGER NOT NULL,
			start_col INTEGER NOT NULL,
			end_row INTEGER NOT NULL,
			end_col INTEGER NOT NULL,
			path_length INTEGER NOT NULL DEFAULT 0,
			expanded INTEGER NOT NULL DEFAULT 0,
			efficiency REAL NOT NULL DEFAULT 0,
			elapsed_us INTEGER NOT NULL DEFAULT 0,
			report TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_solves_source ON solves(source);
		CREATE INDEX IF NOT EXISTS idx_solves_outcome ON solves(outcome);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const solveColumns = `id, run_id, source, outcome, grid_rows, grid_cols, start_row, start_col,
	end_row, end_col, path_length, expanded, efficiency, elapsed_us, report, created_at`

// SaveSolve records a solve. Returns the ID of the inserted record.
func (s *Store) SaveSolve(rec SolveRecord) (int64, error) {
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, rec.Report); err != nil {
		return 0, fmt.Errorf("storage: cannot encode report: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO solves (run_id, source, outcome, grid_rows, grid_cols, start_row, start_col,
		                     end_row, end_col, path_length, expanded, efficiency, elapsed_us, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Source, rec.Outcome, rec.Rows, rec.Cols,
		rec.Start.Row, rec.Start.Col, rec.End.Row, rec.End.Col,
		rec.PathLength, rec.Expanded, rec.Efficiency, rec.Elapsed.Microseconds(),
		buf.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save solve: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSolves retrieves the most recent solves, newest first.
func (s *Store) RecentSolves(limit int) ([]SolveRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+solveColumns+`
		 FROM solves
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	defer rows.Close()

	var records []SolveRecord
	for rows.Next() {
		rec, err := scanSolve(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SolveByID retrieves a solve by its row ID.
// Returns nil, nil when no such solve exists.
func (s *Store) SolveByID(id int64) (*SolveRecord, error) {
	row := s.db.QueryRow(`SELECT `+solveColumns+` FROM solves WHERE id = ?`, id)
	rec, err := scanSolve(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SolveByRunID retrieves a solve by its run ID or a unique prefix of it.
// Wildcards in runID match literally. Returns nil, nil when nothing matches.
func (s *Store) SolveByRunID(runID string) (*SolveRecord, error) {
	if strings.TrimSpace(runID) == "" {
		return nil, fmt.Errorf("storage: empty run ID")
	}
	prefix := likeEscaper.Replace(runID) + "%"
	row := s.db.QueryRow(
		`SELECT `+solveColumns+` FROM solves WHERE run_id LIKE ? ESCAPE '\' ORDER BY id DESC LIMIT 1`,
		prefix,
	)
	rec, err := scanSolve(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ClearSolves deletes all stored solves.
func (s *Store) ClearSolves() error {
	_, err := s.db.Exec("DELETE FROM solves")
	if err != nil {
		return fmt.Errorf("storage: cannot clear solves: %w", err)
	}
	return nil
}

// RecordSolve implements engine.Recorder.
// This adapter allows the solver to save history without direct storage dependency.
func (s *Store) RecordSolve(rec engine.Record) error {
	_, err := s.SaveSolve(SolveRecord{
		RunID:      rec.RunID,
		Source:     rec.Source,
		Outcome:    string(rec.Outcome),
		Rows:       rec.Rows,
		Cols:       rec.Cols,
		Start:      rec.Start,
		End:        rec.End,
		PathLength: rec.PathLength,
		Expanded:   rec.Expanded,
		Efficiency: rec.Efficiency,
		Elapsed:    rec.Elapsed,
		Report:     rec.Report,
	})
	return err
}

// Ensure Store implements Recorder
var _ engine.Recorder = (*Store)(nil)

// SolveStats contains aggregated statistics over all solves.
type SolveStats struct {
	Count         int
	Solved        int
	AvgPathLength float64
	AvgEfficiency float64
	AvgExpanded   float64
	LastSolved    time.Time
}

// Stats retrieves aggregated statistics. Averages cover solved runs only.
func (s *Store) Stats() (*SolveStats, error) {
	stats := &SolveStats{}

	err := s.db.QueryRow(`SELECT COUNT(*) FROM solves`).Scan(&stats.Count)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count solves: %w", err)
	}

	var lastSolved any
	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(path_length), 0), COALESCE(AVG(efficiency), 0),
		        COALESCE(AVG(expanded), 0), MAX(created_at)
		 FROM solves WHERE outcome = ?`,
		string(engine.OutcomeSolved),
	).Scan(&stats.Solved, &stats.AvgPathLength, &stats.AvgEfficiency, &stats.AvgExpanded, &lastSolved)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get solve stats: %w", err)
	}
	stats.LastSolved = parseTime(lastSolved)

	return stats, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolve(sc rowScanner) (SolveRecord, error) {
	var (
		rec        SolveRecord
		elapsedUS  int64
		reportJSON string
		createdAt  any
	)
	err := sc.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.Source,
		&rec.Outcome,
		&rec.Rows,
		&rec.Cols,
		&rec.Start.Row,
		&rec.Start.Col,
		&rec.End.Row,
		&rec.End.Col,
		&rec.PathLength,
		&rec.Expanded,
		&rec.Efficiency,
		&elapsedUS,
		&reportJSON,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	rec.Elapsed = time.Duration(elapsedUS) * time.Microsecond
	rec.CreatedAt = parseTime(createdAt)
	rec.Report, err = report.ReadJSON(strings.NewReader(reportJSON))
	if err != nil {
		return rec, fmt.Errorf("storage: cannot decode report of solve %d: %w", rec.ID, err)
	}
	return rec, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
