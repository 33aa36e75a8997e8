// Package core declares the blob store contract shared by the spool facade
// and the infra drivers. Keeping it in its own package lets drivers depend
// on the types without importing the facade.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	// DriverMemory represents the in-process implementation (default, tests).
	DriverMemory Driver = "memory"
	// DriverFilesystem represents the local filesystem implementation.
	DriverFilesystem Driver = "fs"
	// DriverS3 represents an S3 / MinIO compatible implementation.
	DriverS3 Driver = "s3"
)

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string // MIME type, optional
}

// Info describes a stored blob.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the spool abstraction the content accessor caches fetched
// payloads through. Semantics mirror a minimal subset of S3 so the S3
// adapter is nearly 1:1 while filesystem and memory adapters emulate them.
type Store interface {
	// Put stores the blob at key, replacing any previous payload.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	// Get retrieves the blob contents and metadata. A missing key yields an
	// error wrapping ErrNoBlob.
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	// Delete removes a blob. Returns (false, nil) when the key is absent.
	Delete(ctx context.Context, key string) (bool, error)
	// Driver returns the configured backend driver identifier.
	Driver() Driver
}

// ErrNoBlob indicates the requested key holds no payload.
var ErrNoBlob = errors.New("blobstore: no such blob")
