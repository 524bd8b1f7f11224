package config

import (
	"os"
	"path/filepath"
)

// DefaultCheckpointDir returns the default checkpoint directory based on the
// host OS. It prefers standard locations when available and falls back to a
// dotdir in the user's home directory.
func DefaultCheckpointDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./checkpoints"
	}

	// XDG (Linux) override
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskqd")
	}

	// Common Linux/Unix system dir
	if isDir("/var/lib") {
		return "/var/lib/taskqd"
	}

	// macOS: ~/Library/Application Support/Taskqd
	if isDir(filepath.Join(homeDir, "Library")) {
		return filepath.Join(homeDir, "Library", "Application Support", "Taskqd")
	}

	// Windows: %USERPROFILE%/AppData/Local/Taskqd
	if isDir(filepath.Join(homeDir, "AppData")) {
		return filepath.Join(homeDir, "AppData", "Local", "Taskqd")
	}

	// Fallback: ~/.taskqd
	return filepath.Join(homeDir, ".taskqd")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
