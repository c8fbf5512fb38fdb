// Version command for the tally CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/pkg/tally"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tally version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tally", tally.Version)
	},
}
