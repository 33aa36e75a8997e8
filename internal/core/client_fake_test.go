package core

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"fedstream/pkg/domain"
)

// fakeClient implements domain.Client for engine tests. Zero value behaves
// like an empty repository: every fetch reports not-found and every
// mutation succeeds.
type fakeClient struct {
	profileXML  []byte
	profileErr  error
	contentData []byte
	contentErr  error

	addErr    error
	modifyErr error
	purgeErr  error

	profileCalls int
	contentCalls int
	addCalls     int
	modifyCalls  int
	purgeCalls   int

	lastParams  map[string]string
	lastContent []byte
}

func (f *fakeClient) DatastreamProfile(_ context.Context, pid, dsid string) ([]byte, error) {
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profileXML == nil {
		return nil, fmt.Errorf("%s/%s: %w", pid, dsid, domain.ErrNotFound)
	}
	return f.profileXML, nil
}

func (f *fakeClient) DatastreamContent(_ context.Context, pid, dsid string) (io.ReadCloser, error) {
	f.contentCalls++
	if f.contentErr != nil {
		return nil, f.contentErr
	}
	if f.contentData == nil {
		return nil, fmt.Errorf("%s/%s: %w", pid, dsid, domain.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(f.contentData)), nil
}

func (f *fakeClient) ContentLocation(pid, dsid string) string {
	return "http://repo.example/objects/" + pid + "/datastreams/" + dsid + "/content"
}

func (f *fakeClient) AddDatastream(_ context.Context, _, _ string, params map[string]string, content io.Reader) error {
	f.addCalls++
	f.capture(params, content)
	return f.addErr
}

func (f *fakeClient) ModifyDatastream(_ context.Context, _, _ string, params map[string]string, content io.Reader) error {
	f.modifyCalls++
	f.capture(params, content)
	return f.modifyErr
}

func (f *fakeClient) PurgeDatastream(_ context.Context, _, _ string) error {
	f.purgeCalls++
	return f.purgeErr
}

func (f *fakeClient) capture(params map[string]string, content io.Reader) {
	f.lastParams = params
	f.lastContent = nil
	if content != nil {
		f.lastContent, _ = io.ReadAll(content)
	}
}

const existingProfileXML = `<datastreamProfile xmlns="http://www.fedora.info/definitions/1/0/management/" pid="demo:1" dsID="DS1">
  <dsLabel>Foo</dsLabel>
  <dsState>A</dsState>
  <dsMIME>text/plain</dsMIME>
</datastreamProfile>`

// newTestDatastream wires a datastream handle over the fake client.
func newTestDatastream(t interface{ Fatalf(string, ...any) }, client *fakeClient, opts ...RepositoryOption) *Datastream {
	repo := NewRepository(client, opts...)
	obj := NewObject("demo:1", repo)
	ds, err := obj.Datastream(context.Background(), "DS1", nil)
	if err != nil {
		t.Fatalf("datastream: %v", err)
	}
	return ds
}
