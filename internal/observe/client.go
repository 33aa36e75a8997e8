package observe

import (
	"context"
	"io"
	"time"

	"fedstream/pkg/domain"
)

// InstrumentClient wraps next so every remote call reports its outcome and
// latency to rec. A nil rec returns next unchanged.
func InstrumentClient(next domain.Client, rec Recorder) domain.Client {
	if rec == nil {
		return next
	}
	return &instrumentedClient{next: next, rec: rec}
}

type instrumentedClient struct {
	next domain.Client
	rec  Recorder
}

func (c *instrumentedClient) observe(operation string, start time.Time, err error) {
	c.rec.Observe(operation, err, time.Since(start))
}

func (c *instrumentedClient) DatastreamProfile(ctx context.Context, pid, dsid string) ([]byte, error) {
	start := time.Now()
	raw, err := c.next.DatastreamProfile(ctx, pid, dsid)
	c.observe("profile", start, err)
	return raw, err
}

func (c *instrumentedClient) DatastreamContent(ctx context.Context, pid, dsid string) (io.ReadCloser, error) {
	start := time.Now()
	body, err := c.next.DatastreamContent(ctx, pid, dsid)
	c.observe("content", start, err)
	return body, err
}

func (c *instrumentedClient) ContentLocation(pid, dsid string) string {
	return c.next.ContentLocation(pid, dsid)
}

func (c *instrumentedClient) AddDatastream(ctx context.Context, pid, dsid string, params map[string]string, content io.Reader) error {
	start := time.Now()
	err := c.next.AddDatastream(ctx, pid, dsid, params, content)
	c.observe("add", start, err)
	return err
}

func (c *instrumentedClient) ModifyDatastream(ctx context.Context, pid, dsid string, params map[string]string, content io.Reader) error {
	start := time.Now()
	err := c.next.ModifyDatastream(ctx, pid, dsid, params, content)
	c.observe("modify", start, err)
	return err
}

func (c *instrumentedClient) PurgeDatastream(ctx context.Context, pid, dsid string) error {
	start := time.Now()
	err := c.next.PurgeDatastream(ctx, pid, dsid)
	c.observe("purge", start, err)
	return err
}
