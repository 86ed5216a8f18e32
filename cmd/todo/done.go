package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/SangamNirala/TodoList/pkg/models"
)

var doneSub int

var doneCmd = &cobra.Command{
	Use:   "done <number>",
	Short: "Toggle a task's completion",
	Long: `Toggle completion on a task by its list number.

Completing a task also completes its subtasks; reopening it leaves
them alone. Use --sub to toggle a single subtask instead; the parent
follows automatically once every subtask is done.

  todo done 2
  todo done 2 --sub 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task number: %q", args[0])
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		task, err := taskByIndex(env.store, models.FilterAll, n)
		if err != nil {
			return err
		}

		var updated models.Task
		if doneSub > 0 {
			if doneSub > len(task.Subtasks) {
				return fmt.Errorf("subtask number out of range: %d", doneSub)
			}
			updated, err = env.store.ToggleSubtask(task.ID, task.Subtasks[doneSub-1].ID)
		} else {
			updated, err = env.store.ToggleTask(task.ID)
		}
		if err != nil {
			return err
		}
		if err := env.save(); err != nil {
			return err
		}

		if doneSub > 0 {
			sub := updated.Subtasks[doneSub-1]
			printToggled(sub.Text, sub.Completed)
		} else {
			printToggled(updated.Text, updated.Completed)
		}
		return nil
	},
}

func init() {
	doneCmd.Flags().IntVar(&doneSub, "sub", 0, "Toggle the nth subtask instead of the whole task")
}

func printToggled(text string, completed bool) {
	if completed {
		fmt.Printf("%s %s\n", color.GreenString("done:"), text)
	} else {
		fmt.Printf("%s %s\n", color.YellowString("reopened:"), text)
	}
}
