// Package cmd wires the scopemesh command line interface.
package cmd

import "github.com/spf13/cobra"

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "scopemesh",
		Short:         "Versioned context management for LLM agents",
		Long:          "scopemesh manages agent context as named scopes with append-only note logs. Use the repl to drive the ctx command grammar interactively, or demo to watch a scripted session.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newReplCmd(),
		newDemoCmd(),
	)

	return rootCmd
}
