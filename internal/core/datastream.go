package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"

	"fedstream/internal/blob"
	"fedstream/internal/profile"
	"fedstream/pkg/domain"
	"fedstream/pkg/hooks"
)

// Datastream is one remote-backed attribute-and-payload record. It tracks
// local overrides and a dirty set against a lazily fetched remote profile.
// Instances are not safe for concurrent use.
type Datastream struct {
	object *Object
	id     string

	overrides map[domain.Attribute]any
	dirty     map[domain.Attribute]struct{}

	profile       domain.Profile
	profileLoaded bool

	content       []byte
	contentLoaded bool
	spooled       bool
}

// NewDatastream constructs a handle for (object, dsid) without any remote
// call. The opts mapping is applied via Set, in attribute-table order,
// inside the after-initialize hook bracket so observers can see or adjust
// initial state before first use.
func NewDatastream(ctx context.Context, object *Object, dsid string, opts map[string]any) (*Datastream, error) {
	ds := &Datastream{
		object:    object,
		id:        dsid,
		overrides: make(map[domain.Attribute]any),
		dirty:     make(map[domain.Attribute]struct{}),
	}
	err := object.repo.hooks.Run(ctx, hooks.PhaseInitialize, ds, func(ctx context.Context) error {
		for _, name := range domain.Attributes() {
			value, ok := opts[string(name)]
			if !ok {
				continue
			}
			if err := ds.Set(ctx, name, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// ID returns the immutable datastream identifier.
func (d *Datastream) ID() string { return d.id }

// Object returns the parent container.
func (d *Datastream) Object() *Object { return d.object }

// Get resolves the effective value of the named attribute: local override,
// then remote profile value, then lifecycle default while the datastream is
// new, then nil. Reading never mutates the dirty set. Unrecognised
// attributes resolve to nil.
func (d *Datastream) Get(ctx context.Context, name domain.Attribute) any {
	spec, ok := domain.SpecFor(name)
	if !ok {
		return nil
	}
	if v, ok := d.overrides[name]; ok {
		return v
	}
	if spec.ProfileKey != "" {
		if v, ok := d.Profile(ctx)[spec.ProfileKey]; ok {
			return v
		}
	}
	if spec.Default != nil && d.IsNew(ctx) {
		return spec.Default
	}
	return nil
}

// Set assigns a local override for the named attribute, marking it dirty
// unless value equals the currently effective value. Assigning content
// additionally drops any cached fetched payload.
func (d *Datastream) Set(ctx context.Context, name domain.Attribute, value any) error {
	if !domain.IsRecognised(name) {
		return fmt.Errorf("datastream %s: unknown attribute %q", d.id, name)
	}
	if name == domain.AttrContent {
		return d.SetContent(ctx, value)
	}
	if valueEqual(d.Get(ctx, name), value) {
		return nil
	}
	d.overrides[name] = value
	d.dirty[name] = struct{}{}
	return nil
}

// ChangedAttributes returns the attributes assigned since the last
// successful synchronization or cache reset, in attribute-table order.
func (d *Datastream) ChangedAttributes() []domain.Attribute {
	out := make([]domain.Attribute, 0, len(d.dirty))
	for _, name := range domain.Attributes() {
		if _, ok := d.dirty[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// HasChanges reports whether any attribute is dirty.
func (d *Datastream) HasChanges() bool { return len(d.dirty) > 0 }

// Profile returns the remote descriptive-metadata mapping, fetching and
// caching it on first use. Fetch and parse failures, including not-found,
// collapse to an empty profile: absence of remote state, never an error.
func (d *Datastream) Profile(ctx context.Context) domain.Profile {
	if d.profileLoaded {
		return d.profile
	}
	d.profile = domain.Profile{}
	d.profileLoaded = true
	raw, err := d.object.repo.client.DatastreamProfile(ctx, d.object.pid, d.id)
	if err != nil {
		return d.profile
	}
	parsed, err := profile.Parse(raw)
	if err != nil {
		return d.profile
	}
	d.profile = parsed
	return d.profile
}

// IsNew reports whether the datastream exists remotely. It is recomputed
// from the current profile state on every call, never cached independently.
func (d *Datastream) IsNew(ctx context.Context) bool {
	return len(d.Profile(ctx)) == 0
}

// Reset clears the cached profile, the cached content, all local overrides,
// and the dirty set, forcing a fresh remote fetch on the next read. It is
// invoked after every successful mutating remote operation and may be called
// directly when remote state is known stale.
func (d *Datastream) Reset(ctx context.Context) {
	d.profile = nil
	d.profileLoaded = false
	d.overrides = make(map[domain.Attribute]any)
	d.dirty = make(map[domain.Attribute]struct{})
	d.dropContentCache(ctx)
}

// Content returns the payload: pending local content if assigned, else the
// cached fetched payload, else a remote fetch. A remote not-found yields
// (nil, nil). Fetched payloads are read fully and cached, so repeated reads
// always return the complete content.
func (d *Datastream) Content(ctx context.Context) ([]byte, error) {
	if v, ok := d.overrides[domain.AttrContent]; ok {
		b, _ := v.([]byte)
		return slices.Clone(b), nil
	}
	if d.contentLoaded {
		if !d.spooled {
			return slices.Clone(d.content), nil
		}
		if b, err := d.readSpool(ctx); err == nil {
			return b, nil
		}
		// Spool entry went away; fall through to a fresh fetch.
		d.contentLoaded = false
		d.spooled = false
	}
	rc, err := d.object.repo.client.DatastreamContent(ctx, d.object.pid, d.id)
	if errors.Is(err, domain.ErrNotFound) {
		d.content = nil
		d.contentLoaded = true
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	d.cacheContent(ctx, b)
	return slices.Clone(b), nil
}

// SetContent stages value as the pending local payload and marks the content
// pseudo-attribute dirty. No remote call occurs until a synchronization
// operation runs. Accepted values: []byte, string, io.Reader (read fully),
// or nil to stage empty content.
func (d *Datastream) SetContent(ctx context.Context, value any) error {
	b, err := contentBytes(value)
	if err != nil {
		return fmt.Errorf("datastream %s: %w", d.id, err)
	}
	if existing, ok := d.overrides[domain.AttrContent]; ok {
		if prev, _ := existing.([]byte); bytes.Equal(prev, b) {
			return nil
		}
	}
	d.overrides[domain.AttrContent] = b
	d.dirty[domain.AttrContent] = struct{}{}
	d.dropContentCache(ctx)
	return nil
}

// ContentURL derives the remote content location without any fetch.
func (d *Datastream) ContentURL() string {
	return d.object.repo.client.ContentLocation(d.object.pid, d.id)
}

// pendingContent returns a reader over staged local content when the content
// pseudo-attribute is dirty, else nil.
func (d *Datastream) pendingContent() io.Reader {
	if _, dirty := d.dirty[domain.AttrContent]; !dirty {
		return nil
	}
	b, _ := d.overrides[domain.AttrContent].([]byte)
	if len(b) == 0 {
		return nil
	}
	return bytes.NewReader(b)
}

func (d *Datastream) spoolKey() string {
	return d.object.pid + "/" + d.id
}

// cacheContent retains a fetched payload, routing it through the configured
// spool when one is present and falling back to process memory.
func (d *Datastream) cacheContent(ctx context.Context, b []byte) {
	d.contentLoaded = true
	spool := d.object.repo.spool
	if spool != nil {
		mime, _ := d.Get(ctx, domain.AttrMimeType).(string)
		if _, err := spool.Put(ctx, d.spoolKey(), bytes.NewReader(b), blob.PutOptions{ContentType: mime}); err == nil {
			d.spooled = true
			d.content = nil
			return
		}
	}
	d.spooled = false
	d.content = b
}

func (d *Datastream) readSpool(ctx context.Context) ([]byte, error) {
	_, rc, err := d.object.repo.spool.Get(ctx, d.spoolKey())
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}
	return b, err
}

// dropContentCache forgets any fetched payload, including the spool entry.
func (d *Datastream) dropContentCache(ctx context.Context) {
	d.content = nil
	d.contentLoaded = false
	if d.spooled {
		if spool := d.object.repo.spool; spool != nil {
			_, _ = spool.Delete(ctx, d.spoolKey())
		}
		d.spooled = false
	}
}

// contentBytes normalizes the accepted content representations to bytes.
func contentBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return slices.Clone(v), nil
	case string:
		return []byte(v), nil
	case io.Reader:
		return io.ReadAll(v)
	default:
		return nil, fmt.Errorf("unsupported content type %T", value)
	}
}

// valueEqual compares attribute values for the idempotent-write law.
func valueEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	return reflect.DeepEqual(a, b)
}
