package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"chirp/internal/observability"
)

// DiskStore stores blobs as files under a root directory and serves them
// from a public base URL.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates a DiskStore rooted at dir. baseURL is the public
// prefix under which stored paths are reachable.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New("blob store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob store root: %w", err)
	}
	return &DiskStore{
		root:    dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Put writes data at path, overwriting any existing object.
func (s *DiskStore) Put(_ context.Context, path string, data []byte) (*Handle, error) {
	observability.BlobStoreCalls.WithLabelValues("put").Inc()

	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write blob %q: %w", path, err)
	}
	return &Handle{Path: path, Size: int64(len(data))}, nil
}

// URL returns the public URL for a stored object.
func (s *DiskStore) URL(_ context.Context, h *Handle) (string, error) {
	observability.BlobStoreCalls.WithLabelValues("url").Inc()

	if h == nil || h.Path == "" {
		return "", errors.New("invalid blob handle")
	}
	return s.baseURL + "/" + h.Path, nil
}

// Delete removes the object at path. Deleting a missing object is not an error.
func (s *DiskStore) Delete(_ context.Context, path string) error {
	observability.BlobStoreCalls.WithLabelValues("delete").Inc()

	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob %q: %w", path, err)
	}
	return nil
}

// resolve maps a store path to an absolute filesystem path, rejecting
// anything that would escape the root.
func (s *DiskStore) resolve(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}
