// Package fs implements a filesystem-backed blob Store.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fedstream/internal/blob/core"
)

// Store implements core.Store using the local filesystem. Keys map to
// relative file paths under the root; a sidecar file (key + ".meta") holds
// the content type. Not safe for concurrent writers on the same key.
type Store struct {
	root string
}

type sidecar struct {
	ContentType string `json:"content_type,omitempty"`
}

// New returns a filesystem-backed blob store rooted at path, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./spooldata"
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Driver returns the blob driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// sanitizeKey rejects keys that would escape the root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid key traversal")
	}
	return clean, nil
}

func (s *Store) path(clean string) string {
	return filepath.Join(s.root, filepath.FromSlash(clean))
}

// Put stores the blob at key, replacing any previous payload.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return core.Info{}, err
	}
	dest := s.path(clean)
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return core.Info{}, err
	}
	f, err := os.Create(dest)
	if err != nil {
		return core.Info{}, err
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return core.Info{}, err
	}
	meta, err := json.Marshal(sidecar{ContentType: opts.ContentType})
	if err != nil {
		return core.Info{}, err
	}
	if err := os.WriteFile(dest+".meta", meta, 0o640); err != nil {
		return core.Info{}, err
	}
	return core.Info{Key: clean, Size: size, ContentType: opts.ContentType, LastModified: time.Now().UTC()}, nil
}

// Get returns blob metadata and a read closer to its content.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	f, err := os.Open(s.path(clean))
	if errors.Is(err, os.ErrNotExist) {
		return core.Info{}, nil, fmt.Errorf("blob %s: %w", clean, core.ErrNoBlob)
	}
	if err != nil {
		return core.Info{}, nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return core.Info{}, nil, err
	}
	var sc sidecar
	if raw, err := os.ReadFile(s.path(clean) + ".meta"); err == nil {
		_ = json.Unmarshal(raw, &sc)
	}
	info := core.Info{Key: clean, Size: st.Size(), ContentType: sc.ContentType, LastModified: st.ModTime().UTC()}
	return info, f, nil
}

// Delete removes the blob and its sidecar, returning true if it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return false, err
	}
	err = os.Remove(s.path(clean))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_ = os.Remove(s.path(clean) + ".meta")
	return true, nil
}
