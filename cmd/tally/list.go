// List command prints tasks matching optional filters.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/pkg/types"
)

var (
	listCategory  string
	listPriority  string
	listSearch    string
	listCompleted bool
	listPending   bool
	listDeleted   bool
	listAll       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List prints live tasks, scoped to the active category context unless
--all or --category overrides it. Filters combine with AND.

Example:
  tally list
  tally list --category Work --pending
  tally list --search milk
  tally list --deleted`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "category name or ID")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "priority: high, medium, or low")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "title substring to match")
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "only completed tasks")
	listCmd.Flags().BoolVar(&listPending, "pending", false, "only pending tasks")
	listCmd.Flags().BoolVar(&listDeleted, "deleted", false, "show soft-deleted tasks instead")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "ignore the active category context")
}

func runList(cmd *cobra.Command, args []string) error {
	if listPriority != "" {
		if _, err := types.ParsePriority(listPriority); err != nil {
			return err
		}
	}

	filter := types.TaskFilter{
		Search:      listSearch,
		Priority:    listPriority,
		DeletedOnly: listDeleted,
	}
	if listCompleted {
		completed := true
		filter.Completed = &completed
	}
	if listPending {
		pending := false
		filter.Completed = &pending
	}
	if !listAll && !listDeleted {
		scope, err := categoryScope(listCategory)
		if err != nil {
			return err
		}
		filter.CategoryID = scope
	}

	tasks, err := store.ListTasks(filter)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	names, err := categoryNames()
	if err != nil {
		return err
	}
	for _, t := range tasks {
		printTask(t, displayCategory(t, names))
	}
	return nil
}
