// Package storage keeps a history of plot runs in SQLite. Only run
// metadata is stored; trajectories are never persisted.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound  = errors.New("storage: run not found")
	ErrAmbiguous = errors.New("storage: run id prefix is ambiguous")
)

// Run is one finished plot run.
type Run struct {
	ID         string  `db:"id" json:"id"`
	Plot       string  `db:"plot" json:"plot"`
	Model      string  `db:"model" json:"model"`
	Surface    string  `db:"surface" json:"surface"`
	Status     string  `db:"status" json:"status"`
	Planned    int     `db:"planned" json:"planned"`
	Iterations int     `db:"iterations" json:"iterations"`
	Segments   int     `db:"segments" json:"segments"`
	Pumps      int     `db:"pumps" json:"pumps"`
	Step       float64 `db:"step" json:"step"`
	StartedAt  int64   `db:"started_at" json:"started_at"`
	ElapsedNS  int64   `db:"elapsed_ns" json:"elapsed_ns"`
	Cause      string  `db:"cause" json:"cause,omitempty"`
}

func (r Run) Started() time.Time { return time.Unix(0, r.StartedAt) }

func (r Run) Elapsed() time.Duration { return time.Duration(r.ElapsedNS) }

type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		plot TEXT NOT NULL,
		model TEXT NOT NULL,
		surface TEXT NOT NULL,
		status TEXT NOT NULL,
		planned INTEGER NOT NULL,
		iterations INTEGER NOT NULL,
		segments INTEGER NOT NULL,
		pumps INTEGER NOT NULL,
		step REAL NOT NULL,
		started_at INTEGER NOT NULL,
		elapsed_ns INTEGER NOT NULL,
		cause TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *Store) Save(r Run) error {
	_, err := s.conn.NamedExec(`
		INSERT OR REPLACE INTO runs
			(id, plot, model, surface, status, planned, iterations, segments, pumps, step, started_at, elapsed_ns, cause)
		VALUES
			(:id, :plot, :model, :surface, :status, :planned, :iterations, :segments, :pumps, :step, :started_at, :elapsed_ns, :cause)`, r)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.ID, err)
	}
	return nil
}

// List returns the most recent runs first. limit <= 0 means all.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	runs := []Run{}
	if err := s.conn.Select(&runs, `SELECT * FROM runs ORDER BY started_at DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Load finds a run by id or unique id prefix.
func (s *Store) Load(id string) (*Run, error) {
	var r Run
	err := s.conn.Get(&r, `SELECT * FROM runs WHERE id = ?`, id)
	if err == nil {
		return &r, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}

	matches := []Run{}
	if err := s.conn.Select(&matches, `SELECT * FROM runs WHERE id LIKE ? LIMIT 2`, id+"%"); err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}
