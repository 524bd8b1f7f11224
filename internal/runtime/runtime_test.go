package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cfgpkg "github.com/rzbill/taskqd/internal/config"
	"github.com/rzbill/taskqd/internal/snapshot"
)

func testConfig(t *testing.T) cfgpkg.Config {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.CheckpointDir = t.TempDir()
	return cfg
}

func TestOpenStartsEmptyWithoutSnapshot(t *testing.T) {
	rt, err := Open(Options{Config: testConfig(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	require.NoError(t, rt.CheckHealth())

	_, err = rt.Registry().NextAvailable("anything")
	require.Error(t, err)
}

func TestSaveAndReopenRestoresTasks(t *testing.T) {
	cfg := testConfig(t)

	rt, err := Open(Options{Config: cfg})
	require.NoError(t, err)
	id := rt.Registry().Add("q", 5, "12345")
	require.NoError(t, rt.Save())
	require.NoError(t, rt.Close())

	rt2, err := Open(Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt2.Close() })
	ok, err := rt2.Registry().Contains("q", id)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOpenFailsOnCorruptSnapshot(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.CheckpointDir, snapshot.FileName), []byte("garbage"), 0o644))

	_, err := Open(Options{Config: cfg})
	require.Error(t, err)
}

func TestPebbleBackendRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.SnapshotBackend = cfgpkg.SnapshotBackendPebble

	rt, err := Open(Options{Config: cfg})
	require.NoError(t, err)
	id := rt.Registry().Add("q", 3, "abc")
	require.NoError(t, rt.Save())
	require.NoError(t, rt.Close())

	rt2, err := Open(Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt2.Close() })
	ok, err := rt2.Registry().Contains("q", id)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.VisibilityTimeoutSec = 0
	_, err := Open(Options{Config: cfg})
	require.Error(t, err)
}
