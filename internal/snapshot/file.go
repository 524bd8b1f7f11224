package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the snapshot file written inside the checkpoint directory.
const FileName = "taskqd.snapshot"

// FileStore keeps the snapshot in a single file, replaced via temp file and
// rename so a concurrent or crashed reader never sees a partial write.
type FileStore struct {
	path string
}

// NewFileStore creates the checkpoint directory if needed and returns a
// store for the snapshot file inside it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, FileName)}, nil
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string { return s.path }

// Write replaces the snapshot file atomically.
func (s *FileStore) Write(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Read returns the snapshot file contents. A missing or empty file reads as
// ErrNotFound: an empty snapshot carries no state worth restoring.
func (s *FileStore) Read() ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(b) == 0 {
		return nil, ErrNotFound
	}
	return b, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }
