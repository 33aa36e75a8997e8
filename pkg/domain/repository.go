package domain

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound marks a remote condition where the requested object or
// datastream does not exist. Profile and content readers translate it into
// absence; mutating operations surface it to the caller unchanged.
var ErrNotFound = errors.New("repository: not found")

// Client is the transport contract the synchronization engine consumes. A
// production implementation speaks the repository's REST management API;
// tests substitute fakes.
type Client interface {
	// DatastreamProfile fetches the raw profile document for (pid, dsid).
	// A missing object or datastream yields an error wrapping ErrNotFound.
	DatastreamProfile(ctx context.Context, pid, dsid string) ([]byte, error)
	// DatastreamContent fetches the opaque payload for (pid, dsid). The
	// caller owns closing the returned reader. Missing content yields an
	// error wrapping ErrNotFound.
	DatastreamContent(ctx context.Context, pid, dsid string) (io.ReadCloser, error)
	// ContentLocation derives the remote content URL for (pid, dsid)
	// without performing any request.
	ContentLocation(pid, dsid string) string
	// AddDatastream creates the datastream with the supplied parameters and
	// optional content body. Fails if the datastream already exists.
	AddDatastream(ctx context.Context, pid, dsid string, params map[string]string, content io.Reader) error
	// ModifyDatastream updates an existing datastream.
	ModifyDatastream(ctx context.Context, pid, dsid string, params map[string]string, content io.Reader) error
	// PurgeDatastream removes the datastream from the repository.
	PurgeDatastream(ctx context.Context, pid, dsid string) error
}
