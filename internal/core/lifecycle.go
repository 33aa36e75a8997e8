package core

import (
	"context"

	"fedstream/internal/journal"
	"fedstream/pkg/hooks"
)

// Create adds the datastream to the remote repository. The add call is
// always attempted; when the datastream already exists the remote failure
// propagates unchanged and local state stays untouched. On success the
// caches reset and a fresh detached handle for the same identity is
// returned; the receiver keeps its identity but is logically retired.
func (d *Datastream) Create(ctx context.Context) (*Datastream, error) {
	var fresh *Datastream
	err := d.object.repo.hooks.Run(ctx, hooks.PhaseCreate, d, func(ctx context.Context) error {
		params := d.APIParams(ctx)
		err := d.object.repo.client.AddDatastream(ctx, d.object.pid, d.id, params, d.pendingContent())
		d.record(ctx, journal.ActionAdd, paramKeys(params), err)
		if err != nil {
			return err
		}
		d.Reset(ctx)
		fresh, err = d.object.refresh(ctx, d.id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

// Save synchronizes local mutations with the remote repository: a create
// when the datastream is new, otherwise a modify call carrying APIParams.
// Cache reset happens only after the remote call succeeds, so a failed save
// leaves the dirty set and cached profile available for inspection and
// retry. Returns a fresh detached handle, as Create does.
func (d *Datastream) Save(ctx context.Context) (*Datastream, error) {
	if d.IsNew(ctx) {
		return d.Create(ctx)
	}
	var fresh *Datastream
	err := d.object.repo.hooks.Run(ctx, hooks.PhaseSave, d, func(ctx context.Context) error {
		params := d.APIParams(ctx)
		err := d.object.repo.client.ModifyDatastream(ctx, d.object.pid, d.id, params, d.pendingContent())
		d.record(ctx, journal.ActionModify, paramKeys(params), err)
		if err != nil {
			return err
		}
		d.Reset(ctx)
		fresh, err = d.object.refresh(ctx, d.id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

// Delete purges the datastream remotely when it exists, removes the
// identifier from the parent's collection, and resets caches. A never
// persisted datastream issues no purge call but still detaches. Returns the
// receiver: the entity is gone, so there is no fresh state to hand out.
func (d *Datastream) Delete(ctx context.Context) (*Datastream, error) {
	err := d.object.repo.hooks.Run(ctx, hooks.PhaseDestroy, d, func(ctx context.Context) error {
		if !d.IsNew(ctx) {
			err := d.object.repo.client.PurgeDatastream(ctx, d.object.pid, d.id)
			d.record(ctx, journal.ActionPurge, nil, err)
			if err != nil {
				return err
			}
		}
		d.object.forget(d.id)
		d.Reset(ctx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// record appends a journal entry for an attempted remote mutation. Journal
// failures never affect the lifecycle outcome.
func (d *Datastream) record(ctx context.Context, action journal.Action, params []string, opErr error) {
	rec := d.object.repo.journal
	if rec == nil {
		return
	}
	_ = rec.Record(ctx, journal.NewEntry(d.object.pid, d.id, action, params, opErr))
}
