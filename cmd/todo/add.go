package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a task to the list",
	Long: `Add a task to the top of the list.

All arguments are joined into the task text, so quoting is optional:

  todo add water the plants
  todo add "call the dentist"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		task, err := env.store.Add(strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := env.save(); err != nil {
			return err
		}

		fmt.Printf("%s %s\n", color.GreenString("added:"), task.Text)
		return nil
	},
}
