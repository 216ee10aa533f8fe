package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"surveyscope/ports"
)

// LocalStore writes generated artifacts to a directory on disk and hands
// back URLs under a base path the HTTP layer serves.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates an artifact store rooted at dir.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &LocalStore{root: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

var _ ports.ArtifactStore = (*LocalStore)(nil)

// Put writes an artifact and returns its serving URL. Keys may contain
// forward slashes for grouping; path traversal is rejected.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid artifact key: %s", key)
	}

	path := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact subdirectory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", clean, err)
	}

	log.Printf("[ArtifactStore] Stored %s (%d bytes, %s)", clean, len(data), contentType)
	return s.baseURL + "/" + filepath.ToSlash(clean), nil
}

// Root returns the directory artifacts are written to, for HTTP serving.
func (s *LocalStore) Root() string {
	return s.root
}
