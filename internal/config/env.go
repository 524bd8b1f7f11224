package config

import (
	"os"
	"strconv"
)

// FromEnv overlays TASKQD_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("TASKQD_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TASKQD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("TASKQD_CHECKPOINT_DIR"); v != "" {
		cfg.CheckpointDir = v
	}
	if v := os.Getenv("TASKQD_VISIBILITY_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.VisibilityTimeoutSec = n
		}
	}
	if v := os.Getenv("TASKQD_MAX_PENDING_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxPendingConns = n
		}
	}
	if v := os.Getenv("TASKQD_SNAPSHOT_BACKEND"); v != "" {
		cfg.SnapshotBackend = v
	}
	if v := os.Getenv("TASKQD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKQD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
