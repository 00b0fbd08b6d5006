// CLAUDE:SUMMARY SQLite journal of batch normalization runs (source, counts, status, timing).
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status values stored in the runs table.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Stats summarizes the outcome of one run.
type Stats struct {
	Items       int
	Unparseable int
	Ambiguous   int
}

// Run is a row from the runs table.
type Run struct {
	ID         string
	Source     string
	Items      int
	StartedAt  int64
	FinishedAt *int64
	Status     string
	Stats      Stats
	Error      *string
}

// Journal records batch runs in SQLite.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS runs (
		id           TEXT PRIMARY KEY,
		source       TEXT NOT NULL,
		items        INTEGER NOT NULL,
		started_at   INTEGER NOT NULL,
		finished_at  INTEGER,
		status       TEXT NOT NULL,
		processed    INTEGER NOT NULL DEFAULT 0,
		unparseable  INTEGER NOT NULL DEFAULT 0,
		ambiguous    INTEGER NOT NULL DEFAULT 0,
		error        TEXT
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Start inserts a running row and returns its id.
func (j *Journal) Start(source string, items int) (string, error) {
	id := uuid.NewString()
	_, err := j.db.Exec(
		`INSERT INTO runs (id, source, items, started_at, status) VALUES (?, ?, ?, ?, ?)`,
		id, source, items, j.now().Unix(), StatusRunning,
	)
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// Finish closes a run. A non-nil runErr marks it failed.
func (j *Journal) Finish(id string, st Stats, runErr error) error {
	status := StatusDone
	var errPtr *string
	if runErr != nil {
		status = StatusFailed
		msg := runErr.Error()
		errPtr = &msg
	}
	res, err := j.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ?, processed = ?, unparseable = ?, ambiguous = ?, error = ?
		WHERE id = ?`,
		j.now().Unix(), status, st.Items, st.Unparseable, st.Ambiguous, errPtr, id,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrNotFound)
	}
	return nil
}

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// List returns the most recent runs first. limit <= 0 means all.
func (j *Journal) List(limit int) ([]Run, error) {
	q := `SELECT id, source, items, started_at, finished_at, status, processed, unparseable, ambiguous, error
		FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.Items, &r.StartedAt, &r.FinishedAt, &r.Status,
			&r.Stats.Items, &r.Stats.Unparseable, &r.Stats.Ambiguous, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
