// Uncheck command marks a task pending again.
package main

import "github.com/spf13/cobra"

var uncheckCategory string

var uncheckCmd = &cobra.Command{
	Use:   "uncheck <task>",
	Short: "Mark a task pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCompleted(args[0], uncheckCategory, false)
	},
}

func init() {
	uncheckCmd.Flags().StringVarP(&uncheckCategory, "category", "c", "", "category scope for name lookup")
}
