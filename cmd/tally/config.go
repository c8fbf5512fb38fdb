// Config commands manage store-persisted settings.
package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage settings",
	Long: `Config reads and writes settings stored alongside the tasks. Known keys:

  deleted-task-lifespan  days before deleted tasks are purged (0 = never)
  default-priority       priority for new tasks (high, medium, low)
  default-category       category for new tasks when no context is set
  current-category       active category context (set via 'category use')`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		// storage.* keys live in config.yaml, not in the store.
		if key == cfgKeyStorageType || key == cfgKeyStoragePath {
			if err := setFileConfig(key, value); err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", key, value)
			return nil
		}

		if err := validateCategorySetting(key, value); err != nil {
			return err
		}
		if err := store.SetConfig(key, value); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", key, value)
		return nil
	},
}

var configDefaultCmd = &cobra.Command{
	Use:   "default <key>",
	Short: "Reset a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.UnsetConfig(args[0]); err != nil {
			return err
		}
		cfg, err := store.GetConfig()
		if err != nil {
			return err
		}
		fmt.Printf("%s = %s (default)\n", args[0], cfg.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings and their effective values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := store.GetConfig()
		if err != nil {
			return err
		}
		for _, key := range types.SettingsKeys {
			value := cfg.Get(key)
			suffix := ""
			if _, set := cfg[key]; !set {
				suffix = " (default)"
			}
			if value == "" {
				value = "<unset>"
			}
			fmt.Printf("%-22s %s%s\n", key, value, suffix)
		}
		return nil
	},
}

var configResetForce bool

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all data and reseed the default categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !configResetForce {
			fmt.Println("Warning: this deletes every task and category.")
			fmt.Print("Are you sure you want to continue? [y/N] ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.ToLower(strings.TrimSpace(line)) != "y" {
				fmt.Println("Operation cancelled")
				return nil
			}
		}
		if err := resetStore(); err != nil {
			return err
		}
		fmt.Println("Store reset to its initial state with default categories")
		return nil
	},
}

func init() {
	configResetCmd.Flags().BoolVar(&configResetForce, "force", false, "skip the confirmation prompt")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configDefaultCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configResetCmd)
}

// validateCategorySetting rejects a default-category value that does not
// resolve to a live category.
func validateCategorySetting(key, value string) error {
	if key != types.KeyDefaultCategory || value == "" {
		return nil
	}
	if _, err := resolver.Category(value); err != nil {
		return fmt.Errorf("category %q: %w", value, err)
	}
	return nil
}
