// Check command marks a task completed.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCategory string

var checkCmd = &cobra.Command{
	Use:   "check <task>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCompleted(args[0], checkCategory, true)
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkCategory, "category", "c", "", "category scope for name lookup")
}

// setCompleted resolves a task and flips its completed flag.
func setCompleted(input, category string, completed bool) error {
	scope, err := categoryScope(category)
	if err != nil {
		return err
	}
	task, err := resolveTask(input, scope)
	if err != nil {
		return err
	}

	task.SetCompleted(completed)
	if err := store.UpdateTask(task); err != nil {
		return err
	}

	state := "pending"
	if completed {
		state = "completed"
	}
	fmt.Printf("Task %d is %s: %s\n", task.ID, state, task.Title)
	return nil
}
