// Package httpapi implements the repository client contract over the
// Fedora-3-style REST management API.
package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fedstream/pkg/domain"
)

const defaultTimeout = 60 * time.Second

// Config holds client construction parameters.
type Config struct {
	BaseURL  string // e.g. http://localhost:8080/fedora
	User     string // optional basic-auth user
	Password string
	Timeout  time.Duration // per-request; default 60s
	Logger   *slog.Logger  // optional; debug-level request logging
}

// Client speaks the REST management API. It implements domain.Client.
type Client struct {
	base *url.URL
	http *http.Client
	user string
	pass string
	log  *slog.Logger
}

var _ domain.Client = (*Client)(nil)

// New constructs a client from Config.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("httpapi: base URL required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("httpapi: parse base URL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
		user: cfg.User,
		pass: cfg.Password,
		log:  log,
	}, nil
}

// datastreamURL builds <base>/objects/<pid>/datastreams/<dsid>[/suffix]?query.
func (c *Client) datastreamURL(pid, dsid, suffix string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") +
		"/objects/" + url.PathEscape(pid) +
		"/datastreams/" + url.PathEscape(dsid)
	if suffix != "" {
		u.Path += "/" + suffix
	}
	u.RawQuery = query.Encode()
	return u.String()
}

// do issues the request, translating 404 into domain.ErrNotFound and any
// other non-2xx status into a generic failure. The caller owns the body on
// success.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("httpapi: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}
	c.log.DebugContext(ctx, "repository request", "method", method, "url", rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpapi: %s %s: %w", method, rawURL, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return nil, fmt.Errorf("httpapi: %s %s: %w", method, rawURL, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := bodySnippet(resp)
		drain(resp)
		return nil, fmt.Errorf("httpapi: %s %s: status %d: %s", method, rawURL, resp.StatusCode, snippet)
	}
	return resp, nil
}

// DatastreamProfile fetches the raw profile XML for (pid, dsid).
func (c *Client) DatastreamProfile(ctx context.Context, pid, dsid string) ([]byte, error) {
	query := url.Values{"format": []string{"xml"}}
	resp, err := c.do(ctx, http.MethodGet, c.datastreamURL(pid, dsid, "", query), nil, "")
	if err != nil {
		return nil, err
	}
	defer drain(resp)
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpapi: read profile: %w", err)
	}
	return raw, nil
}

// DatastreamContent fetches the payload stream for (pid, dsid).
func (c *Client) DatastreamContent(ctx context.Context, pid, dsid string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, c.datastreamURL(pid, dsid, "content", nil), nil, "")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ContentLocation derives the content URL without any request.
func (c *Client) ContentLocation(pid, dsid string) string {
	return c.datastreamURL(pid, dsid, "content", nil)
}

// AddDatastream creates the datastream. Parameters travel in the query
// string; content, when present, is the request body.
func (c *Client) AddDatastream(ctx context.Context, pid, dsid string, params map[string]string, content io.Reader) error {
	return c.mutate(ctx, http.MethodPost, pid, dsid, params, content)
}

// ModifyDatastream updates an existing datastream.
func (c *Client) ModifyDatastream(ctx context.Context, pid, dsid string, params map[string]string, content io.Reader) error {
	return c.mutate(ctx, http.MethodPut, pid, dsid, params, content)
}

// PurgeDatastream removes the datastream.
func (c *Client) PurgeDatastream(ctx context.Context, pid, dsid string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.datastreamURL(pid, dsid, "", nil), nil, "")
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

func (c *Client) mutate(ctx context.Context, method, pid, dsid string, params map[string]string, content io.Reader) error {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	contentType := params["mimeType"]
	if content != nil && contentType == "" {
		contentType = "application/octet-stream"
	}
	resp, err := c.do(ctx, method, c.datastreamURL(pid, dsid, "", query), content, contentType)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// bodySnippet reads a short prefix of an error body for diagnostics.
func bodySnippet(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return strings.TrimSpace(string(b))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
