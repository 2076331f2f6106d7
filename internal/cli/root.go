// Package cli is the eventhorizon command line: the HTTP server and its
// maintenance commands.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the eventhorizon root command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eventhorizon",
		Short: "Event decision workflow service",
		Long: `Runs the event service: activity proposals and votes, date options,
availability responses and comments for events inside rooms.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewTokenCommand())

	return cmd
}
