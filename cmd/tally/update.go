// Update command edits an existing task.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updateCategory    string
	updateTitle       string
	updateDescription string
	updatePriority    string
	updateDue         string
	updateClearDue    bool
)

var updateCmd = &cobra.Command{
	Use:   "update <task>",
	Short: "Update a task's fields",
	Long: `Update edits a task identified by ID or exact title. Only the fields
given as flags change.

Example:
  tally update 3 --priority high
  tally update "Buy milk" --title "Buy oat milk" --due 2026-09-01`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "category scope for name lookup")
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "new priority: high, medium, or low")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD)")
	updateCmd.Flags().BoolVar(&updateClearDue, "clear-due", false, "remove the due date")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	scope, err := categoryScope(updateCategory)
	if err != nil {
		return err
	}
	task, err := resolveTask(args[0], scope)
	if err != nil {
		return err
	}

	if updateTitle != "" {
		if err := task.SetTitle(updateTitle); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("description") {
		task.Description = updateDescription
	}
	if updatePriority != "" {
		if err := task.SetPriority(updatePriority); err != nil {
			return err
		}
	}
	if updateClearDue {
		task.SetDueDate(nil)
	} else if updateDue != "" {
		due, err := parseDueDate(updateDue)
		if err != nil {
			return err
		}
		task.SetDueDate(due)
	}

	if err := store.UpdateTask(task); err != nil {
		return err
	}
	fmt.Printf("Updated task %d\n", task.ID)
	return nil
}
