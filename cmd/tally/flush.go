// Flush command permanently removes soft-deleted tasks.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Permanently remove all deleted tasks",
	Long: `Flush empties the Deleted category regardless of the configured
deleted-task-lifespan. Removed tasks cannot be recovered.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := manager.Flush(time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d deleted task(s)\n", n)
		return nil
	},
}
