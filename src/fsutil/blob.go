package fsutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// LocalBlobStore keeps raw uploads on the local filesystem, one
// directory per session under root. It is the default blob backend.
type LocalBlobStore struct {
	root string
	fs   FileStore
}

func NewLocalBlobStore(root string) (*LocalBlobStore, error) {
	if root == "" {
		return nil, fmt.Errorf("upload root directory is required")
	}
	fs := NewLocalFileStore()
	if err := fs.MakeDirectory(root); err != nil {
		return nil, fmt.Errorf("failed to create upload root: %w", err)
	}
	return &LocalBlobStore{root: root, fs: fs}, nil
}

// objectPath maps a session ID and object name onto a path strictly
// inside root. Both components must be plain names: empty strings,
// ".", ".." and anything containing a path separator are rejected so
// a caller-supplied session ID can never resolve outside the root.
func (s *LocalBlobStore) objectPath(sessionID, name string) (string, error) {
	if !validComponent(sessionID) || !validComponent(name) {
		return "", fmt.Errorf("invalid object path %q/%q", sessionID, name)
	}
	return filepath.Join(s.root, sessionID, name), nil
}

func validComponent(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// Put stores data and returns the stored path. The content type is
// ignored; the filesystem keeps no object metadata.
func (s *LocalBlobStore) Put(ctx context.Context, sessionID, name string, data []byte, contentType string) (string, error) {
	path, err := s.objectPath(sessionID, name)
	if err != nil {
		return "", err
	}
	if err := s.fs.MakeDirectory(filepath.Dir(path)); err != nil {
		return "", fmt.Errorf("failed to create session upload directory: %w", err)
	}
	if err := s.fs.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, nil
}

func (s *LocalBlobStore) Get(ctx context.Context, sessionID, name string) ([]byte, error) {
	path, err := s.objectPath(sessionID, name)
	if err != nil {
		return nil, err
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}
