// Package storage persists ticket screenshot attachments on local disk,
// keyed by upload timestamp plus the original filename.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// UploadStore writes attachments under a single uploads directory.
type UploadStore struct {
	dir     string
	maxSize int64
	now     func() time.Time
}

// NewUploadStore creates the store and its backing directory.
func NewUploadStore(dir string, maxSize int64) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: dir, maxSize: maxSize, now: time.Now}, nil
}

// Dir returns the backing directory, used for static file serving.
func (s *UploadStore) Dir() string {
	return s.dir
}

// Save writes the uploaded screenshot and returns its stored path. The
// original filename is flattened to its base name so callers cannot direct
// writes outside the uploads directory.
func (s *UploadStore) Save(filename string, size int64, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("unsupported attachment type %q", ext)
	}
	if s.maxSize > 0 && size > s.maxSize {
		return "", fmt.Errorf("attachment exceeds %d bytes", s.maxSize)
	}

	name := fmt.Sprintf("%d_%s", s.now().Unix(), filepath.Base(filename))
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Remove deletes a previously saved attachment, used when the record it was
// meant for is never written. Paths outside the store are refused.
func (s *UploadStore) Remove(path string) error {
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(s.dir) {
		return fmt.Errorf("path %q is outside the upload dir", path)
	}
	return os.Remove(path)
}
