// Move command reassigns a task to another category.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveFrom string

var moveCmd = &cobra.Command{
	Use:   "move <task> <category>",
	Short: "Move a task to another category",
	Long: `Move reassigns a task, identified by ID or exact title, to the target
category (name or ID).

Example:
  tally move "Buy milk" Work
  tally move 3 Home`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func init() {
	moveCmd.Flags().StringVar(&moveFrom, "from", "", "category scope for name lookup")
}

func runMove(cmd *cobra.Command, args []string) error {
	scope, err := categoryScope(moveFrom)
	if err != nil {
		return err
	}
	task, err := resolveTask(args[0], scope)
	if err != nil {
		return err
	}

	target, err := resolver.Category(args[1])
	if err != nil {
		return fmt.Errorf("category %q: %w", args[1], err)
	}

	task.MoveTo(target.ID)
	if err := store.UpdateTask(task); err != nil {
		return err
	}
	fmt.Printf("Moved task %d to %s\n", task.ID, target.Name)
	return nil
}
