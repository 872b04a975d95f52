// Package cmd contains the CLI entry points for the assistant service.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Nassau National Cable AI assistant service",
	Long: `HTTP front-end for the Nassau National Cable AI assistant.

Forwards customer questions to the hosted cable-products agent and relays
its answers, keeping a bounded per-session conversation history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand starts the server.
		return runServe(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
