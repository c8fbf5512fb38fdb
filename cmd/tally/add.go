// Add command creates a new task.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/pkg/types"
)

var (
	addCategory    string
	addPriority    string
	addDescription string
	addDue         string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Long: `Add creates a task in the given category. Without --category the task
goes to the active category context ('tally category use'), the configured
default category, or the uncategorized scope.

Example:
  tally add "Buy milk"
  tally add "File report" --category Work --priority high --due 2026-09-15`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category name or ID")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "priority: high, medium, or low")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "longer task description")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := store.GetConfig()
	if err != nil {
		return err
	}

	// Precedence: --category flag, then the active context, then the
	// configured default category, then uncategorized.
	categoryID := types.DeletedCategoryID
	scope, err := categoryScope(addCategory)
	if err != nil {
		return err
	}
	if scope == nil {
		if name := cfg.Get(types.KeyDefaultCategory); name != "" {
			cat, err := resolver.Category(name)
			if err != nil {
				return fmt.Errorf("default category %q: %w", name, err)
			}
			scope = &cat.ID
		}
	}
	if scope != nil {
		categoryID = *scope
	}

	priority := addPriority
	if priority == "" {
		priority = cfg.DefaultPriority()
	}

	task, err := types.NewTask(args[0], categoryID, priority)
	if err != nil {
		return err
	}
	task.Description = addDescription
	due, err := parseDueDate(addDue)
	if err != nil {
		return err
	}
	task.SetDueDate(due)

	id, err := store.CreateTask(task)
	if err != nil {
		return err
	}

	fmt.Printf("Added task %d: %s\n", id, task.Title)
	return nil
}
