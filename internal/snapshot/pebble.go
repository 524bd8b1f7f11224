package snapshot

import (
	"errors"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/rzbill/taskqd/internal/storage/pebble"
)

var snapshotKey = []byte("snapshot/current")

// PebbleStore keeps the snapshot blob in a Pebble database under the
// checkpoint directory. Writes go through the WAL, so replacing the
// snapshot is atomic without temp-file juggling.
type PebbleStore struct {
	db *pebblestore.DB
}

// NewPebbleStore opens (or creates) the Pebble database at dir.
func NewPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

// Write replaces the stored snapshot.
func (s *PebbleStore) Write(data []byte) error {
	return s.db.Set(snapshotKey, data)
}

// Read returns the stored snapshot, or ErrNotFound when none was written.
func (s *PebbleStore) Read() ([]byte, error) {
	b, err := s.db.Get(snapshotKey)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(b) == 0 {
		return nil, ErrNotFound
	}
	return b, nil
}

// Close closes the underlying database.
func (s *PebbleStore) Close() error { return s.db.Close() }
