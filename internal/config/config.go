package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot backends.
const (
	SnapshotBackendFile   = "file"
	SnapshotBackendPebble = "pebble"
)

// Config is the top-level configuration loaded from file/env/flags.
type Config struct {
	// ListenAddr is the bind address of the TCP listener.
	ListenAddr string `json:"listenAddr"`
	// Port is the bind port of the TCP listener.
	Port int `json:"port"`
	// CheckpointDir holds the snapshot. Empty selects an OS-specific
	// default via DefaultCheckpointDir.
	CheckpointDir string `json:"checkpointDir"`
	// VisibilityTimeoutSec is the server-wide visibility timeout applied
	// to every task at creation.
	VisibilityTimeoutSec int64 `json:"visibilityTimeoutSec"`
	// MaxPendingConns caps concurrently handled connections.
	MaxPendingConns int `json:"maxPendingConns"`
	// SnapshotBackend selects where snapshots live: "file" or "pebble".
	SnapshotBackend string `json:"snapshotBackend"`
	LogLevel        string `json:"logLevel"`
	LogFormat       string `json:"logFormat"`
}

// Default returns built-in defaults matching the historical server behavior.
func Default() Config {
	return Config{
		ListenAddr:           "0.0.0.0",
		Port:                 5555,
		VisibilityTimeoutSec: 300,
		MaxPendingConns:      10,
		SnapshotBackend:      SnapshotBackendFile,
		LogLevel:             "info",
		LogFormat:            "json",
	}
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ListenAddr, c.Port)
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.VisibilityTimeoutSec <= 0 {
		return fmt.Errorf("visibility timeout must be positive, got %d", c.VisibilityTimeoutSec)
	}
	if c.MaxPendingConns <= 0 {
		return fmt.Errorf("max pending connections must be positive, got %d", c.MaxPendingConns)
	}
	switch c.SnapshotBackend {
	case SnapshotBackendFile, SnapshotBackendPebble:
	default:
		return fmt.Errorf("unknown snapshot backend %q", c.SnapshotBackend)
	}
	return nil
}

// Load reads configuration from a JSON file, overlaying defaults. If path is
// empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
