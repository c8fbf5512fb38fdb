// Root command for the tally CLI.
package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tally/internal/lifecycle"
	"github.com/mesh-intelligence/tally/internal/paths"
	"github.com/mesh-intelligence/tally/internal/resolve"
	"github.com/mesh-intelligence/tally/pkg/tally"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagVerbose   bool
)

// Process-wide state initialized by PersistentPreRunE. The store is opened
// once per invocation and closed by PersistentPostRunE.
var (
	store     types.Store
	storePath string
	resolver  *resolve.Resolver
	manager   *lifecycle.Manager
	fileCfg   *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:     "tally",
	Short:   "Tally is a personal task tracker",
	Version: tally.Version,
	Long: `Tally tracks tasks grouped into categories, stored locally in a JSON
file or a SQLite database. Deleted tasks are kept in a reserved Deleted
category until the configured lifespan expires or a flush removes them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logrus.SetLevel(logrus.WarnLevel)
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		// The version command works without a store.
		if cmd.Name() == "version" {
			return nil
		}

		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		fileCfg, err = loadConfig(configDir)
		if err != nil {
			return err
		}

		store, err = openStore(fileCfg)
		if err != nil {
			return err
		}
		resolver = resolve.New(store)
		manager = lifecycle.New(store)

		// Expired deleted tasks are swept on every invocation.
		if _, err := manager.Sweep(time.Now()); err != nil {
			store.Close()
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		return store.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: platform data dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(uncheckCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(flushCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(configCmd)
}
