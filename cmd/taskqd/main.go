package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	clientcmd "github.com/rzbill/taskqd/internal/cmd/client"
	serverrun "github.com/rzbill/taskqd/internal/cmd/server"
	cfgpkg "github.com/rzbill/taskqd/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskqd",
		Short: "taskqd task queue CLI",
		Long:  "taskqd is a TCP task queue with visibility timeouts. This CLI manages the server and basic queue operations.",
	}

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the taskqd server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfgpkg.FromEnv(&cfg)
			applyFlags(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := serverrun.Run(context.Background(), cfg); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	serverStartCmd.Flags().String("config", "", "Path to a JSON config file")
	serverStartCmd.Flags().StringP("ip", "i", "", "Bind address (default 0.0.0.0)")
	serverStartCmd.Flags().IntP("port", "p", 0, "Bind port (default 5555)")
	serverStartCmd.Flags().StringP("checkpoint-dir", "c", "", "Checkpoint directory for snapshots (default OS data dir)")
	serverStartCmd.Flags().Int64P("timeout", "t", 0, "Visibility timeout in seconds (default 300)")
	serverStartCmd.Flags().Int("max-pending", 0, "Max concurrently handled connections (default 10)")
	serverStartCmd.Flags().String("snapshot-backend", "", "Snapshot backend: file|pebble (default file)")
	serverStartCmd.Flags().String("log-level", "", "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", "", "Log format: text|json")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	rootCmd.AddCommand(clientcmd.NewQueueCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyFlags overlays explicitly set flags onto cfg, winning over file and
// environment values.
func applyFlags(cmd *cobra.Command, cfg *cfgpkg.Config) {
	if cmd.Flags().Changed("ip") {
		cfg.ListenAddr, _ = cmd.Flags().GetString("ip")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("checkpoint-dir") {
		cfg.CheckpointDir, _ = cmd.Flags().GetString("checkpoint-dir")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.VisibilityTimeoutSec, _ = cmd.Flags().GetInt64("timeout")
	}
	if cmd.Flags().Changed("max-pending") {
		cfg.MaxPendingConns, _ = cmd.Flags().GetInt("max-pending")
	}
	if cmd.Flags().Changed("snapshot-backend") {
		cfg.SnapshotBackend, _ = cmd.Flags().GetString("snapshot-backend")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
	}
}
