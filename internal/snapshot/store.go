package snapshot

import "errors"

// ErrNotFound reports that no snapshot has been written yet.
var ErrNotFound = errors.New("snapshot not found")

// Store persists one snapshot blob per server instance. Write must be atomic:
// a reader never observes a partially written snapshot.
type Store interface {
	// Write replaces the stored snapshot.
	Write(data []byte) error
	// Read returns the stored snapshot, or ErrNotFound when none exists.
	Read() ([]byte, error)
	// Close releases backend resources.
	Close() error
}
