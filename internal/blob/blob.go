// Package blob selects and re-exports the content-spool storage backends.
// Only this package wraps the infra drivers; everything else depends on the
// blob.Store interface.
package blob

import (
	"context"
	"fmt"

	"fedstream/internal/blob/core"
	"fedstream/internal/infra/blob/fs"
	"fedstream/internal/infra/blob/memory"
	"fedstream/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
	// S3Config carries the S3 driver construction parameters.
	S3Config = s3.Config
)

const (
	// DriverMemory is the in-process driver.
	DriverMemory = core.DriverMemory
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
)

// ErrNoBlob indicates the requested key holds no payload.
var ErrNoBlob = core.ErrNoBlob

// Settings selects and configures a spool backend.
type Settings struct {
	Driver Driver
	FSRoot string // driver=fs
	S3     S3Config
}

// NewMemory returns the in-process store.
func NewMemory() Store { return memory.New() }

// NewFilesystem returns a filesystem store rooted at path.
func NewFilesystem(root string) (Store, error) { return fs.New(root) }

// Open constructs the spool selected by settings. An empty driver defaults
// to memory.
func Open(ctx context.Context, settings Settings) (Store, error) {
	driver := settings.Driver
	if driver == "" {
		driver = DriverMemory
	}
	switch driver {
	case DriverMemory:
		return memory.New(), nil
	case DriverFilesystem:
		return fs.New(settings.FSRoot)
	case DriverS3:
		return s3.New(ctx, settings.S3)
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
