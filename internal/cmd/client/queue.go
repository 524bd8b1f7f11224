package clientcmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewQueueCommand returns the client subcommands that talk the wire protocol
// against a running server.
func NewQueueCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Queue operations against a running taskqd server",
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:5555", "Server address (host:port)")

	addCmd := &cobra.Command{
		Use:   "add <queue> <payload>",
		Short: "Enqueue a task, printing its id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(c *Client) (string, error) { return c.Add(args[0], args[1]) })
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <queue>",
		Short: "Dispatch the next available task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(c *Client) (string, error) { return c.Get(args[0]) })
		},
	}

	inCmd := &cobra.Command{
		Use:   "in <queue> <task-id>",
		Short: "Check whether a task is present",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(c *Client) (string, error) { return c.In(args[0], args[1]) })
		},
	}

	ackCmd := &cobra.Command{
		Use:   "ack <queue> <task-id>",
		Short: "Acknowledge a dispatched task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(c *Client) (string, error) { return c.Ack(args[0], args[1]) })
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Ask the server to write a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(c *Client) (string, error) { return c.Save() })
		},
	}

	cmd.AddCommand(addCmd, getCmd, inCmd, ackCmd, saveCmd)
	return cmd
}

func run(cmd *cobra.Command, fn func(*Client) (string, error)) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	if addr == "" {
		return errors.New("--addr is required")
	}
	resp, err := fn(New(addr))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp)
	return nil
}
