package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreReadMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	_, err = s.Read()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreReadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(), nil, 0o644))
	_, err = s.Read()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreWriteReadOverwrite(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write([]byte("first")))
	b, err := s.Read()
	require.NoError(t, err)
	require.Equal(t, "first", string(b))

	require.NoError(t, s.Write([]byte("second")))
	b, err = s.Read()
	require.NoError(t, err)
	require.Equal(t, "second", string(b))
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Write([]byte("data")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, FileName, entries[0].Name())
}

func TestFileStoreCreatesCheckpointDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "checkpoints")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Write([]byte("x")))
	_, err = os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
}

func TestPebbleStoreRoundTrip(t *testing.T) {
	s, err := NewPebbleStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Read()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write([]byte("blob-1")))
	b, err := s.Read()
	require.NoError(t, err)
	require.Equal(t, "blob-1", string(b))

	require.NoError(t, s.Write([]byte("blob-2")))
	b, err = s.Read()
	require.NoError(t, err)
	require.Equal(t, "blob-2", string(b))
}

func TestPebbleStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewPebbleStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Write([]byte("persisted")))
	require.NoError(t, s.Close())

	s2, err := NewPebbleStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })
	b, err := s2.Read()
	require.NoError(t, err)
	require.Equal(t, "persisted", string(b))
}
