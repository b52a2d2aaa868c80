// Package history persists a RunRecord per completed search to a SQLite
// database under the xerg home directory. It is strictly additive
// observability: nothing in the core search pipeline reads it back.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/google/uuid"
	"github.com/xerg-dev/xerg/internal/engine"
	"github.com/xerg-dev/xerg/internal/filelock"
	"github.com/xerg-dev/xerg/internal/xerrors"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id          TEXT PRIMARY KEY,
  started_at  TEXT NOT NULL,
  pattern     TEXT NOT NULL,
  root        TEXT NOT NULL,
  files       INTEGER NOT NULL,
  lines       INTEGER NOT NULL,
  matches     INTEGER NOT NULL,
  skipped     INTEGER NOT NULL,
  errors      INTEGER NOT NULL,
  elapsed_ms  INTEGER NOT NULL
);
`

// RunRecord is one completed run, as persisted to and read back from the
// history store.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Pattern   string
	Root      string
	Stats     engine.RunStats
}

// Store wraps the SQLite-backed runs table, guarded by an exclusive
// file lock so two concurrent xerg processes never interleave schema
// creation or inserts.
type Store struct {
	path string
}

// Open returns a Store writing to the database at path. The database and
// its schema are created lazily on first Append; Open itself performs no
// I/O.
func Open(path string) *Store {
	return &Store{path: path}
}

// Append records one completed run, tagging it with a fresh UUID and the
// given start time. It acquires the sibling ".lock" file for the
// duration of the write.
func (s *Store) Append(startedAt time.Time, pattern, root string, stats engine.RunStats) error {
	lock := filelock.NewFileLock(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return xerrors.NewHistoryError(err)
	}
	defer lock.Unlock()

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return xerrors.NewHistoryError(err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return xerrors.NewHistoryError(err)
	}

	_, err = db.Exec(
		`INSERT INTO runs (id, started_at, pattern, root, files, lines, matches, skipped, errors, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		startedAt.UTC().Format(time.RFC3339),
		pattern,
		root,
		stats.FilesProcessed,
		stats.LinesRead,
		stats.Matches,
		stats.SkippedLines,
		stats.Errors,
		stats.Elapsed.Milliseconds(),
	)
	if err != nil {
		return xerrors.NewHistoryError(err)
	}
	return nil
}

// Recent returns the most recent limit records, newest first. It is the
// backing query for the `xerg history` subcommand.
func (s *Store) Recent(limit int) ([]RunRecord, error) {
	lock := filelock.NewFileLock(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, xerrors.NewHistoryError(err)
	}
	defer lock.Unlock()

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, xerrors.NewHistoryError(err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return nil, xerrors.NewHistoryError(err)
	}

	rows, err := db.Query(
		`SELECT id, started_at, pattern, root, files, lines, matches, skipped, errors, elapsed_ms
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, xerrors.NewHistoryError(err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var startedAt string
		var elapsedMs int64
		if err := rows.Scan(&r.ID, &startedAt, &r.Pattern, &r.Root,
			&r.Stats.FilesProcessed, &r.Stats.LinesRead, &r.Stats.Matches,
			&r.Stats.SkippedLines, &r.Stats.Errors, &elapsedMs); err != nil {
			return nil, xerrors.NewHistoryError(err)
		}
		t, err := time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, xerrors.NewHistoryError(fmt.Errorf("parse started_at: %w", err))
		}
		r.StartedAt = t
		r.Stats.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		records = append(records, r)
	}
	return records, rows.Err()
}
