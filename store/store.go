// Package store keeps the history of scenario runs in SQLite: one row per run
// and one serialized structure per executed step.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/rfielding/kripke-del/kripke"
	"github.com/rfielding/kripke-del/store/migrations"
)

var (
	// ErrRunNotFound is returned when a run ID is unknown.
	ErrRunNotFound = errors.New("run not found")
	// ErrSnapshotExists is returned when a step of a run is saved twice.
	ErrSnapshotExists = errors.New("snapshot already exists")
)

// Run is one execution of a scenario.
type Run struct {
	ID        string
	Scenario  string
	CreatedAt time.Time
}

// Snapshot is the structure after one step of a run.
type Snapshot struct {
	RunID     string
	Step      int
	Kind      string
	Label     string
	Worlds    int
	Structure *kripke.Structure
}

// Store persists runs and snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateRun records a new run of the named scenario.
func (s *Store) CreateRun(ctx context.Context, scenario string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	run := Run{
		ID:        uuid.NewString(),
		Scenario:  strings.TrimSpace(scenario),
		CreatedAt: fromMillis(toMillis(s.now())),
	}
	if run.Scenario == "" {
		return Run{}, fmt.Errorf("scenario name is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, created_at) VALUES (?, ?, ?)`,
		run.ID, run.Scenario, toMillis(run.CreatedAt),
	)
	if err != nil {
		return Run{}, fmt.Errorf("create run: %w", err)
	}
	return run, nil
}

// SaveSnapshot stores the structure reached after one step.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.Structure == nil {
		return fmt.Errorf("snapshot structure is required")
	}
	data, err := json.Marshal(snap.Structure)
	if err != nil {
		return fmt.Errorf("encode structure: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO snapshots (run_id, step, kind, label, worlds, structure_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.RunID, snap.Step, snap.Kind, snap.Label, snap.Structure.Len(), string(data),
	)
	if err != nil {
		switch {
		case isConstraint(err, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE),
			strings.Contains(strings.ToLower(err.Error()), "unique constraint failed"):
			return fmt.Errorf("%w: run %s step %d", ErrSnapshotExists, snap.RunID, snap.Step)
		case isConstraint(err, sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY),
			strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed"):
			return fmt.Errorf("%w: %s", ErrRunNotFound, snap.RunID)
		}
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	var run Run
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, scenario, created_at FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Scenario, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	run.CreatedAt = fromMillis(createdAt)
	return run, nil
}

// ListRuns returns every run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, scenario, created_at FROM runs ORDER BY created_at ASC, rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt int64
		if err := rows.Scan(&run.ID, &run.Scenario, &createdAt); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		run.CreatedAt = fromMillis(createdAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Snapshots returns the snapshots of a run in step order.
func (s *Store) Snapshots(ctx context.Context, runID string) ([]Snapshot, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT run_id, step, kind, label, worlds, structure_json
		   FROM snapshots
		  WHERE run_id = ?
		  ORDER BY step ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var data string
		if err := rows.Scan(&snap.RunID, &snap.Step, &snap.Kind, &snap.Label, &snap.Worlds, &data); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		snap.Structure = &kripke.Structure{}
		if err := json.Unmarshal([]byte(data), snap.Structure); err != nil {
			return nil, fmt.Errorf("decode snapshot %d: %w", snap.Step, err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

func isConstraint(err error, codes ...int) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	for _, code := range codes {
		if sqliteErr.Code() == code {
			return true
		}
	}
	return false
}
