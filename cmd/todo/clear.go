package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all completed tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		removed := env.store.ClearCompleted()
		if removed == 0 {
			fmt.Println("Nothing to clear.")
			return nil
		}

		if err := env.save(); err != nil {
			return err
		}

		if removed == 1 {
			fmt.Println("Cleared 1 completed task")
		} else {
			fmt.Printf("Cleared %d completed tasks\n", removed)
		}
		return nil
	},
}
