package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "A terminal todo list with AI-assisted task breakdown",
	Long: `Todo keeps a fast personal task list in your terminal.

With no arguments, launches the interactive TUI where you can add
tasks, toggle and filter them, and break a task down into subtasks
with Claude.

Core capabilities:
- Ordered task list with the newest tasks first
- One-key breakdown of a task into 3-5 concrete subtasks
- Subtask completion that rolls up to the parent task
- Filtered views: all, active, completed
- Snapshot persistence in a local SQLite database`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
