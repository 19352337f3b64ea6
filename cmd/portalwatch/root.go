// Package main provides the entry point for the portalwatch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for portalwatch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portalwatch",
		Short: "Captive portal watchdog and auto-login",
		Long: `portalwatch periodically checks whether this machine's connection is
unobstructed or trapped behind a captive portal, and if trapped, performs
the portal's login sequence automatically using credentials from its
configuration file.

Run "portalwatch init" to create a sample configuration, then
"portalwatch watch" to start the periodic check loop.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
