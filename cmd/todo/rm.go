package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/SangamNirala/TodoList/pkg/models"
)

var rmCmd = &cobra.Command{
	Use:   "rm <number>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
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

		env.store.Delete(task.ID)
		if err := env.save(); err != nil {
			return err
		}

		fmt.Printf("%s %s\n", color.RedString("removed:"), task.Text)
		return nil
	},
}
