package core

import (
	"context"
	"sort"
)

// Object is the parent digital-object container a datastream belongs to. It
// owns the identity prefix (PID), the repository session, and the known
// datastream collection. Instances are not safe for concurrent use; callers
// serialize access themselves.
type Object struct {
	pid         string
	repo        *Repository
	datastreams map[string]*Datastream
}

// NewObject constructs a container for pid backed by the repository session.
func NewObject(pid string, repo *Repository) *Object {
	return &Object{
		pid:         pid,
		repo:        repo,
		datastreams: make(map[string]*Datastream),
	}
}

// PID returns the immutable object identifier.
func (o *Object) PID() string { return o.pid }

// Repository returns the session this object synchronizes through.
func (o *Object) Repository() *Repository { return o.repo }

// Datastream returns the handle for dsid, constructing and memoizing it on
// first use. The opts mapping is applied attribute by attribute inside the
// after-initialize hook bracket; it is ignored for handles already known to
// the container.
func (o *Object) Datastream(ctx context.Context, dsid string, opts map[string]any) (*Datastream, error) {
	if ds, ok := o.datastreams[dsid]; ok {
		return ds, nil
	}
	ds, err := NewDatastream(ctx, o, dsid, opts)
	if err != nil {
		return nil, err
	}
	o.datastreams[dsid] = ds
	return ds, nil
}

// DatastreamIDs lists the identifiers known to the container, sorted.
func (o *Object) DatastreamIDs() []string {
	out := make([]string, 0, len(o.datastreams))
	for dsid := range o.datastreams {
		out = append(out, dsid)
	}
	sort.Strings(out)
	return out
}

// refresh constructs a fresh detached handle for dsid and makes it the
// canonical entry in the collection. The previous handle keeps its identity
// but is logically retired.
func (o *Object) refresh(ctx context.Context, dsid string) (*Datastream, error) {
	ds, err := NewDatastream(ctx, o, dsid, nil)
	if err != nil {
		return nil, err
	}
	o.datastreams[dsid] = ds
	return ds, nil
}

// forget removes dsid from the known collection.
func (o *Object) forget(dsid string) {
	delete(o.datastreams, dsid)
}
