package journal

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenNoneYieldsNilRecorder(t *testing.T) {
	for _, driver := range []Driver{"", DriverNone} {
		rec, err := Open(context.Background(), Settings{Driver: driver})
		if err != nil {
			t.Fatalf("open %q: %v", driver, err)
		}
		if rec != nil {
			t.Fatalf("open %q: recorder = %v, want nil", driver, rec)
		}
	}
}

func TestOpenSelectsMemory(t *testing.T) {
	rec, err := Open(context.Background(), Settings{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if rec == nil {
		t.Fatalf("recorder is nil")
	}
	if err := rec.Record(context.Background(), NewEntry("demo:1", "DS1", ActionAdd, nil, nil)); err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestOpenSelectsSQLite(t *testing.T) {
	rec, err := Open(context.Background(), Settings{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "j.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rec.Close()
	if err := rec.Record(context.Background(), NewEntry("demo:1", "DS1", ActionPurge, nil, nil)); err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Settings{Driver: Driver("kafka")}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
