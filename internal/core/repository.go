// Package core implements the datastream attribute state and
// synchronization engine: lazy profile loading, dirty-attribute tracking,
// diff-based request construction, and the create/save/delete lifecycle.
package core

import (
	"fedstream/internal/blob"
	"fedstream/internal/journal"
	"fedstream/pkg/domain"
	"fedstream/pkg/hooks"
)

// Repository bundles the transport client with the optional collaborators
// shared by every datastream handle: a content spool, a sync journal, and
// the lifecycle hook registry.
type Repository struct {
	client  domain.Client
	spool   blob.Store
	journal journal.Recorder
	hooks   *hooks.Registry[*Datastream]
}

// RepositoryOption configures optional collaborators.
type RepositoryOption func(*Repository)

// WithSpool routes fetched content through the given blob store instead of
// pinning payloads in process memory.
func WithSpool(store blob.Store) RepositoryOption {
	return func(r *Repository) { r.spool = store }
}

// WithJournal records every attempted remote mutation to rec.
func WithJournal(rec journal.Recorder) RepositoryOption {
	return func(r *Repository) { r.journal = rec }
}

// NewRepository constructs a repository session around the transport client.
func NewRepository(client domain.Client, opts ...RepositoryOption) *Repository {
	r := &Repository{
		client: client,
		hooks:  hooks.NewRegistry[*Datastream](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Client returns the transport client.
func (r *Repository) Client() domain.Client { return r.client }

// Hooks returns the registry observers attach their lifecycle brackets to.
func (r *Repository) Hooks() *hooks.Registry[*Datastream] { return r.hooks }
