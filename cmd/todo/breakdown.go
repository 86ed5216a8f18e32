package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/SangamNirala/TodoList/internal/decompose"
	"github.com/SangamNirala/TodoList/internal/store"
	"github.com/SangamNirala/TodoList/pkg/models"
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <number>",
	Short: "Break a task into subtasks using Claude",
	Long: `Break a task into smaller subtasks using Claude.

The task keeps its place in the list and gains a checklist of
subtasks. Completing every subtask completes the task.

Examples:
  todo breakdown 1
  todo breakdown 3`,
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

		coordinator := decompose.New(decompose.Config{
			Store:     env.store,
			Generator: newGenerator(env.cfg),
		})

		if err := coordinator.Request(cmd.Context(), task.ID, task.Text); err != nil {
			switch {
			case errors.Is(err, store.ErrAlreadyDecomposed):
				return fmt.Errorf("task already has subtasks: %s", task.Text)
			case errors.Is(err, store.ErrTaskCompleted):
				return fmt.Errorf("task is already completed: %s", task.Text)
			default:
				return err
			}
		}

		fmt.Printf("Breaking down %q...\n", task.Text)
		coordinator.Close()

		var failed string
		for ev := range coordinator.Events() {
			switch ev.Type {
			case decompose.EventDecomposed:
				fmt.Printf("%s %s\n", color.GreenString("✓"), ev.Message)
				if updated, ok := env.store.Get(task.ID); ok {
					for i, sub := range updated.Subtasks {
						fmt.Printf("  %d. %s\n", i+1, sub.Text)
					}
				}
			case decompose.EventGenerationFailed:
				failed = ev.Message
			}
		}

		if failed != "" {
			return errors.New(failed)
		}
		return env.save()
	},
}
