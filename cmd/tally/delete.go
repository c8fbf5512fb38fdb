// Delete command soft-deletes a task.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var deleteCategory string

var deleteCmd = &cobra.Command{
	Use:   "delete <task>",
	Short: "Move a task to the Deleted category",
	Long: `Delete soft-deletes a task: it moves to the reserved Deleted category
and stays recoverable by ID until the configured deleted-task-lifespan
expires or 'tally flush' removes it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteCategory, "category", "c", "", "category scope for name lookup")
}

func runDelete(cmd *cobra.Command, args []string) error {
	scope, err := categoryScope(deleteCategory)
	if err != nil {
		return err
	}
	task, err := resolveTask(args[0], scope)
	if err != nil {
		return err
	}

	if err := manager.DeleteTask(task.ID, time.Now()); err != nil {
		return err
	}
	fmt.Printf("Deleted task %d: %s\n", task.ID, task.Title)
	return nil
}
