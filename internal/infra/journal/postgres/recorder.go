// Package postgres implements a journal Recorder backed by Postgres via the
// pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"fedstream/internal/journal/core"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/fedstream?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Recorder appends entries to a journal table, creating it on first open.
type Recorder struct {
	db *sql.DB
}

// New opens a Postgres-backed recorder using the provided DSN (falls back to
// defaultDSN) and ensures the journal table exists.
func New(ctx context.Context, dsn string) (*Recorder, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS journal (
		id TEXT PRIMARY KEY,
		pid TEXT NOT NULL,
		dsid TEXT NOT NULL,
		action TEXT NOT NULL,
		params JSONB NOT NULL,
		at TIMESTAMPTZ NOT NULL,
		err TEXT NOT NULL DEFAULT ''
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure journal table: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Record inserts the entry.
func (r *Recorder) Record(ctx context.Context, entry core.Entry) error {
	params, err := json.Marshal(entry.Params)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO journal(id,pid,dsid,action,params,at,err) VALUES($1,$2,$3,$4,$5,$6,$7)`,
		entry.ID, entry.PID, entry.DSID, string(entry.Action), params, entry.At, entry.Err)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *Recorder) Close() error { return r.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (r *Recorder) DB() *sql.DB { return r.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
