package runtime

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	cfgpkg "github.com/rzbill/taskqd/internal/config"
	"github.com/rzbill/taskqd/internal/queue"
	"github.com/rzbill/taskqd/internal/snapshot"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger *logrus.Logger
}

// Runtime wires config, snapshot store, and the task registry into one owned
// instance. Its lifecycle is load-at-startup, mutate-per-request,
// save-on-demand-or-at-shutdown; it is injectable so tests can run several
// independent instances.
type Runtime struct {
	cfg    cfgpkg.Config
	reg    *queue.Registry
	store  snapshot.Store
	logger *logrus.Entry
}

// Open builds the snapshot store, restores any prior snapshot, and returns a
// ready Runtime. A missing snapshot is a first run and starts empty; a
// corrupt snapshot is returned as an error so the caller aborts rather than
// run with partially understood state.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	entry := logger.WithField("component", "runtime")

	dir := cfg.CheckpointDir
	if dir == "" {
		dir = cfgpkg.DefaultCheckpointDir()
	}
	store, err := openStore(cfg.SnapshotBackend, dir)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	reg := queue.NewRegistry(cfg.VisibilityTimeoutSec, store)
	loaded, err := reg.Load()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	if loaded {
		entry.WithField("checkpoint_dir", dir).Info("snapshot restored")
	} else {
		entry.WithField("checkpoint_dir", dir).Info("no snapshot found, starting empty")
	}

	return &Runtime{cfg: cfg, reg: reg, store: store, logger: entry}, nil
}

func openStore(backend, dir string) (snapshot.Store, error) {
	switch backend {
	case cfgpkg.SnapshotBackendFile:
		return snapshot.NewFileStore(dir)
	case cfgpkg.SnapshotBackendPebble:
		return snapshot.NewPebbleStore(filepath.Join(dir, "pebble"))
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", backend)
	}
}

// Registry returns the task registry owned by this runtime.
func (r *Runtime) Registry() *queue.Registry { return r.reg }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.cfg }

// Save writes a snapshot of the registry through the configured store.
func (r *Runtime) Save() error { return r.reg.Save() }

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth() error {
	if r.reg == nil || r.store == nil {
		return errors.New("runtime not open")
	}
	return nil
}

// Close releases the snapshot store. It does not save; callers decide
// whether a final snapshot is wanted.
func (r *Runtime) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}
