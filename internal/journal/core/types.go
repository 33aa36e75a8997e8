// Package core declares the sync-journal contract shared by the facade and
// the infra recorders.
package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action identifies the remote mutation a journal entry records.
type Action string

// Journalled remote mutations.
const (
	// ActionAdd records a datastream create call.
	ActionAdd Action = "add"
	// ActionModify records a datastream modify call.
	ActionModify Action = "modify"
	// ActionPurge records a datastream purge call.
	ActionPurge Action = "purge"
)

// Entry is one append-only audit record of an attempted remote mutation.
// Params lists only the parameter names that were sent, never their values.
type Entry struct {
	ID     string    `json:"id"`
	PID    string    `json:"pid"`
	DSID   string    `json:"dsid"`
	Action Action    `json:"action"`
	Params []string  `json:"params,omitempty"`
	At     time.Time `json:"at"`
	Err    string    `json:"err,omitempty"`
}

// NewEntry builds a journal entry with a fresh identifier and timestamp.
// A non-nil opErr marks the entry as a failed attempt.
func NewEntry(pid, dsid string, action Action, params []string, opErr error) Entry {
	e := Entry{
		ID:     uuid.NewString(),
		PID:    pid,
		DSID:   dsid,
		Action: action,
		Params: params,
		At:     time.Now().UTC(),
	}
	if opErr != nil {
		e.Err = opErr.Error()
	}
	return e
}

// Recorder appends journal entries to a durable or in-process log. Recording
// failures must never fail the lifecycle operation that produced the entry.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Close() error
}
