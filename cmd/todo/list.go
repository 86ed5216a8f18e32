package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/SangamNirala/TodoList/internal/state"
	"github.com/SangamNirala/TodoList/pkg/models"
)

var listFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with their subtasks, newest first.

The printed numbers are what the done, rm, and breakdown commands
take. Use --filter to narrow the view:

  todo list
  todo list --filter active
  todo list -f completed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := models.ParseFilter(listFilter)
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		n := 0
		for task := range env.store.Filtered(f) {
			n++
			printTask(n, task)
		}
		if n == 0 {
			fmt.Println("No tasks. Add one with: todo add <text>")
			return nil
		}

		total, active, completed := env.store.Counts()
		summary := fmt.Sprintf("\n%d total · %d active · %d done", total, active, completed)
		if savedAt, err := env.db.SnapshotSavedAt(state.SnapshotName); err == nil && !savedAt.IsZero() {
			summary += fmt.Sprintf(" · saved %s", savedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Println(summary)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "Filter tasks: all, active, or completed")
}

// printTask renders one task line plus its subtasks.
func printTask(n int, task models.Task) {
	fmt.Printf("%3d. %s %s\n", n, checkbox(task.Completed), taskText(task.Text, task.Completed))

	for _, sub := range task.Subtasks {
		fmt.Printf("       %s %s\n", checkbox(sub.Completed), taskText(sub.Text, sub.Completed))
	}
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func taskText(text string, completed bool) string {
	if completed {
		return color.New(color.FgHiBlack, color.CrossedOut).Sprint(text)
	}
	return text
}
