// Package journal selects and re-exports the sync-journal recorders. Only
// this package wraps the infra recorders; everything else depends on the
// journal.Recorder interface.
package journal

import (
	"context"
	"fmt"

	"fedstream/internal/infra/journal/memory"
	"fedstream/internal/infra/journal/postgres"
	"fedstream/internal/infra/journal/sqlite"
	"fedstream/internal/journal/core"
)

type (
	// Action identifies the remote mutation a journal entry records.
	Action = core.Action
	// Entry is one append-only audit record.
	Entry = core.Entry
	// Recorder appends journal entries.
	Recorder = core.Recorder
)

// Re-exported journal actions.
const (
	ActionAdd    = core.ActionAdd
	ActionModify = core.ActionModify
	ActionPurge  = core.ActionPurge
)

// NewEntry builds a journal entry with a fresh identifier and timestamp.
var NewEntry = core.NewEntry

// Driver identifies a journal backend.
type Driver string

const (
	// DriverNone disables journalling.
	DriverNone Driver = "none"
	// DriverMemory retains entries in process memory.
	DriverMemory Driver = "memory"
	// DriverSQLite appends to a local SQLite file.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres appends to a Postgres table via pgx.
	DriverPostgres Driver = "postgres"
)

// Settings selects and configures a journal backend.
type Settings struct {
	Driver Driver
	Path   string // driver=sqlite
	DSN    string // driver=postgres
}

// NewMemory returns the in-process recorder.
func NewMemory() *memory.Recorder { return memory.New() }

// Open constructs the recorder selected by settings. An empty or "none"
// driver yields a nil Recorder, which callers treat as journalling off.
func Open(ctx context.Context, settings Settings) (Recorder, error) {
	switch settings.Driver {
	case "", DriverNone:
		return nil, nil
	case DriverMemory:
		return memory.New(), nil
	case DriverSQLite:
		return sqlite.New(settings.Path)
	case DriverPostgres:
		return postgres.New(ctx, settings.DSN)
	default:
		return nil, fmt.Errorf("unknown journal driver %s", settings.Driver)
	}
}
