// Package sqlite implements a journal Recorder backed by a local SQLite
// database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"fedstream/internal/journal/core"
)

// Recorder appends entries to a single journal table.
type Recorder struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the journal database at path.
func New(path string) (*Recorder, error) {
	if path == "" {
		path = "fedstream-journal.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS journal (
		id TEXT PRIMARY KEY,
		pid TEXT NOT NULL,
		dsid TEXT NOT NULL,
		action TEXT NOT NULL,
		params TEXT NOT NULL,
		at TIMESTAMP NOT NULL,
		err TEXT NOT NULL DEFAULT ''
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal table: %w", err)
	}
	return &Recorder{db: db, path: path}, nil
}

// Record inserts the entry.
func (r *Recorder) Record(ctx context.Context, entry core.Entry) error {
	params, err := json.Marshal(entry.Params)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO journal(id,pid,dsid,action,params,at,err) VALUES(?,?,?,?,?,?,?)`,
		entry.ID, entry.PID, entry.DSID, string(entry.Action), string(params), entry.At, entry.Err)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *Recorder) Close() error { return r.db.Close() }

// Path returns the configured database path.
func (r *Recorder) Path() string { return r.path }

// DB exposes the underlying sql.DB for integration testing hooks.
func (r *Recorder) DB() *sql.DB { return r.db }
