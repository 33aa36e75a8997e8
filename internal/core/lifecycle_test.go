package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fedstream/internal/journal"
	"fedstream/pkg/domain"
	"fedstream/pkg/hooks"
)

func TestCreateResetsAndReturnsDetachedInstance(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	ds := newTestDatastream(t, client)
	if err := ds.Set(ctx, domain.AttrLabel, "L"); err != nil {
		t.Fatalf("set: %v", err)
	}

	fresh, err := ds.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if client.addCalls != 1 {
		t.Fatalf("add calls = %d", client.addCalls)
	}
	if client.lastParams["dsLabel"] != "L" || client.lastParams["controlGroup"] != "M" {
		t.Fatalf("params = %v", client.lastParams)
	}
	if fresh == ds {
		t.Fatalf("expected a detached instance")
	}
	if ds.HasChanges() {
		t.Fatalf("original dirty set not cleared: %v", ds.ChangedAttributes())
	}
	// The fresh handle is canonical in the parent collection.
	again, err := ds.Object().Datastream(ctx, "DS1", nil)
	if err != nil {
		t.Fatalf("datastream: %v", err)
	}
	if again != fresh {
		t.Fatalf("parent collection still holds the retired handle")
	}
}

func TestCreateFailurePropagatesAndPreservesState(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{addErr: fmt.Errorf("409 conflict")}
	ds := newTestDatastream(t, client)
	if err := ds.Set(ctx, domain.AttrLabel, "L"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := ds.Create(ctx); err == nil {
		t.Fatalf("expected create failure")
	}
	if !ds.HasChanges() {
		t.Fatalf("failed create must leave dirty set intact")
	}
	if got := ds.Get(ctx, domain.AttrLabel); got != "L" {
		t.Fatalf("label = %v after failed create", got)
	}
}

func TestSaveDelegatesToCreateWhenNew(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	ds := newTestDatastream(t, client)
	if _, err := ds.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if client.addCalls != 1 || client.modifyCalls != 0 {
		t.Fatalf("add=%d modify=%d, want create path", client.addCalls, client.modifyCalls)
	}
}

func TestSaveModifiesExisting(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{profileXML: []byte(existingProfileXML)}
	ds := newTestDatastream(t, client)
	if err := ds.Set(ctx, domain.AttrLabel, "Bar"); err != nil {
		t.Fatalf("set: %v", err)
	}
	fresh, err := ds.Save(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if client.modifyCalls != 1 || client.addCalls != 0 {
		t.Fatalf("add=%d modify=%d, want modify path", client.addCalls, client.modifyCalls)
	}
	if client.lastParams["dsLabel"] != "Bar" {
		t.Fatalf("params = %v", client.lastParams)
	}
	if fresh == ds {
		t.Fatalf("expected a detached instance")
	}
	// Reading through the fresh handle triggers a new remote fetch.
	before := client.profileCalls
	fresh.Profile(ctx)
	if client.profileCalls != before+1 {
		t.Fatalf("fresh handle did not refetch profile")
	}
}

func TestSaveFailureLeavesCachesUntouched(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{profileXML: []byte(existingProfileXML), modifyErr: fmt.Errorf("500 server error")}
	ds := newTestDatastream(t, client)
	if err := ds.Set(ctx, domain.AttrLabel, "Bar"); err != nil {
		t.Fatalf("set: %v", err)
	}
	fetchesBefore := client.profileCalls

	if _, err := ds.Save(ctx); err == nil {
		t.Fatalf("expected save failure")
	}
	if got := ds.ChangedAttributes(); len(got) != 1 || got[0] != domain.AttrLabel {
		t.Fatalf("dirty set after failed save = %v", got)
	}
	// Cached profile still served without a refetch.
	ds.Profile(ctx)
	if client.profileCalls != fetchesBefore {
		t.Fatalf("failed save invalidated the profile cache")
	}
}

func TestSaveSendsPendingContent(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{profileXML: []byte(existingProfileXML)}
	ds := newTestDatastream(t, client)
	if err := ds.SetContent(ctx, "fresh payload"); err != nil {
		t.Fatalf("set content: %v", err)
	}
	if _, err := ds.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if string(client.lastContent) != "fresh payload" {
		t.Fatalf("content body = %q", client.lastContent)
	}
}

func TestDeleteExistingPurgesAndDetaches(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{profileXML: []byte(existingProfileXML)}
	ds := newTestDatastream(t, client)
	got, err := ds.Delete(ctx)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got != ds {
		t.Fatalf("delete must return the receiver")
	}
	if client.purgeCalls != 1 {
		t.Fatalf("purge calls = %d", client.purgeCalls)
	}
	if ids := ds.Object().DatastreamIDs(); len(ids) != 0 {
		t.Fatalf("parent still knows %v", ids)
	}
}

func TestDeleteNewSkipsPurgeButDetaches(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	ds := newTestDatastream(t, client)
	if _, err := ds.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if client.purgeCalls != 0 {
		t.Fatalf("purge issued for never-persisted datastream")
	}
	if ids := ds.Object().DatastreamIDs(); len(ids) != 0 {
		t.Fatalf("parent still knows %v", ids)
	}
}

func TestDeleteFailureKeepsAttachment(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{profileXML: []byte(existingProfileXML), purgeErr: fmt.Errorf("403 forbidden")}
	ds := newTestDatastream(t, client)
	if _, err := ds.Delete(ctx); err == nil {
		t.Fatalf("expected delete failure")
	}
	if ids := ds.Object().DatastreamIDs(); len(ids) != 1 {
		t.Fatalf("failed purge must leave the collection untouched, got %v", ids)
	}
}

func TestLifecycleJournalsMutations(t *testing.T) {
	ctx := context.Background()
	rec := journal.NewMemory()
	client := &fakeClient{}
	ds := newTestDatastream(t, client, WithJournal(rec))

	fresh, err := ds.Save(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	client.profileXML = []byte(existingProfileXML)
	fresh.Reset(ctx)
	if err := fresh.Set(ctx, domain.AttrLabel, "Bar"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := fresh.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("journal entries = %d", len(entries))
	}
	if entries[0].Action != journal.ActionAdd || entries[1].Action != journal.ActionModify {
		t.Fatalf("actions = %v %v", entries[0].Action, entries[1].Action)
	}
	if entries[0].PID != "demo:1" || entries[0].DSID != "DS1" {
		t.Fatalf("identity = %s/%s", entries[0].PID, entries[0].DSID)
	}
	if entries[0].ID == "" || entries[0].ID == entries[1].ID {
		t.Fatalf("entry ids not unique: %q %q", entries[0].ID, entries[1].ID)
	}
}

func TestJournalRecordsFailedAttempts(t *testing.T) {
	ctx := context.Background()
	rec := journal.NewMemory()
	client := &fakeClient{addErr: fmt.Errorf("409 conflict")}
	ds := newTestDatastream(t, client, WithJournal(rec))
	if _, err := ds.Create(ctx); err == nil {
		t.Fatalf("expected create failure")
	}
	entries := rec.Entries()
	if len(entries) != 1 || entries[0].Err == "" {
		t.Fatalf("entries = %+v, want one failed attempt", entries)
	}
}

func TestHooksBracketLifecycle(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	repo := NewRepository(client)

	var order []string
	repo.Hooks().OnBefore(hooks.PhaseInitialize, func(context.Context, *Datastream) error {
		order = append(order, "init-before")
		return nil
	})
	repo.Hooks().OnBefore(hooks.PhaseCreate, func(context.Context, *Datastream) error {
		order = append(order, "create-before")
		return nil
	})
	repo.Hooks().OnAfter(hooks.PhaseCreate, func(_ context.Context, _ *Datastream, err error) {
		order = append(order, fmt.Sprintf("create-after err=%v", err))
	})

	obj := NewObject("demo:1", repo)
	ds, err := obj.Datastream(ctx, "DS1", nil)
	if err != nil {
		t.Fatalf("datastream: %v", err)
	}
	if _, err := ds.Create(ctx); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Create constructs the detached handle, so initialize fires twice.
	want := []string{"init-before", "create-before", "init-before", "create-after err=<nil>"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestBeforeHookAbortsRemoteCall(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	repo := NewRepository(client)
	abort := errors.New("policy veto")
	repo.Hooks().OnBefore(hooks.PhaseCreate, func(context.Context, *Datastream) error {
		return abort
	})
	obj := NewObject("demo:1", repo)
	ds, err := obj.Datastream(ctx, "DS1", nil)
	if err != nil {
		t.Fatalf("datastream: %v", err)
	}
	if _, err := ds.Create(ctx); !errors.Is(err, abort) {
		t.Fatalf("err = %v, want hook abort", err)
	}
	if client.addCalls != 0 {
		t.Fatalf("remote call issued despite aborted hook")
	}
}
