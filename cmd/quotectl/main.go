// Package main implements quotectl, a command-line client for the daily quote service.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// version is injected via ldflags.
var version = "dev"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	server  string
	timeout time.Duration
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "quotectl",
		Short: "CLI for the daily quote service",
		Long: `quotectl talks to a running daily quote service over its HTTP API.

Examples:
  # Show today's quote and the next reminder
  quotectl today

  # Import a clippings export
  quotectl import "My Clippings.txt"

  # Remind me every day at 07:30
  quotectl time set 07:30`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.server, "server", "http://localhost:8080", "daily quote service URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newTodayCmd(opts),
		newDailyCmd(opts),
		newListCmd(opts),
		newGetCmd(opts),
		newImportCmd(opts),
		newRemindersCmd(opts),
		newTimeCmd(opts),
	)

	return root
}
