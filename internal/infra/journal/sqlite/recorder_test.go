package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fedstream/internal/journal/core"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := New(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRecordPersistsEntry(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	entry := core.NewEntry("demo:1", "DS1", core.ActionAdd, []string{"controlGroup", "dsLabel"}, nil)
	if err := r.Record(ctx, entry); err != nil {
		t.Fatalf("record: %v", err)
	}

	var pid, dsid, action, params, errCol string
	row := r.DB().QueryRowContext(ctx, `SELECT pid, dsid, action, params, err FROM journal WHERE id = ?`, entry.ID)
	if err := row.Scan(&pid, &dsid, &action, &params, &errCol); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if pid != "demo:1" || dsid != "DS1" || action != "add" {
		t.Fatalf("row = %s/%s %s", pid, dsid, action)
	}
	if params != `["controlGroup","dsLabel"]` {
		t.Fatalf("params = %s", params)
	}
	if errCol != "" {
		t.Fatalf("err column = %q, want empty", errCol)
	}
}

func TestFailedAttemptKeepsErrorText(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	entry := core.NewEntry("demo:1", "DS1", core.ActionPurge, nil, errors.New("gone wrong"))
	if err := r.Record(ctx, entry); err != nil {
		t.Fatalf("record: %v", err)
	}

	var errCol string
	row := r.DB().QueryRowContext(ctx, `SELECT err FROM journal WHERE id = ?`, entry.ID)
	if err := row.Scan(&errCol); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if errCol != "gone wrong" {
		t.Fatalf("err column = %q", errCol)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	r, err := New(path)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	entry := core.NewEntry("demo:1", "DS1", core.ActionModify, []string{"dsState"}, nil)
	if err := r.Record(ctx, entry); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r2, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()
	var n int
	if err := r2.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM journal`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	entry := core.NewEntry("demo:1", "DS1", core.ActionAdd, nil, nil)
	if err := r.Record(ctx, entry); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := r.Record(ctx, entry); err == nil {
		t.Fatalf("expected primary key violation on duplicate id")
	}
}

func TestNewCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "journal.db")
	r, err := New(path)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	defer r.Close()
	if r.Path() != path {
		t.Fatalf("path = %q", r.Path())
	}
}
