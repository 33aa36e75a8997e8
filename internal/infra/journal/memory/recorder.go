// Package memory implements an in-process journal Recorder for tests and
// journal-less deployments that still want inspection.
package memory

import (
	"context"
	"sync"

	"fedstream/internal/journal/core"
)

// Recorder retains entries in memory in append order.
type Recorder struct {
	mu      sync.Mutex
	entries []core.Entry
}

// New returns an empty in-memory recorder.
func New() *Recorder { return &Recorder{} }

// Record appends the entry.
func (r *Recorder) Record(_ context.Context, entry core.Entry) error {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	return nil
}

// Entries returns a copy of all recorded entries.
func (r *Recorder) Entries() []core.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Close is a no-op.
func (r *Recorder) Close() error { return nil }
