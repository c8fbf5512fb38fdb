// Config file loading for the tally CLI. The config file selects the
// storage backend and path; everything else lives in the store itself.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tally/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileFullName = "config.yaml"

	// Config keys read once at startup.
	cfgKeyStorageType = "storage.type"
	cfgKeyStoragePath = "storage.path"
	cfgKeyDataDir     = "data_dir"

	defaultStorageType = "json"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Tally CLI configuration

# Storage backend: json or sqlite
storage:
  type: json
  # path: override the store file location
  # path:

# Data directory (optional; overridable by --data-dir flag)
# data_dir:
`

// loadConfig reads config.yaml from the config directory using Viper,
// creating the directory and a default file on first run. A missing
// config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyStorageType, defaultStorageType)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// setFileConfig validates and writes a storage.* key back to config.yaml.
// The new value takes effect on the next invocation.
func setFileConfig(key, value string) error {
	if key == cfgKeyStorageType {
		if _, err := types.ParseStorageType(value); err != nil {
			return fmt.Errorf("%w: %q", err, value)
		}
	}
	fileCfg.Set(key, value)
	if err := fileCfg.WriteConfig(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ensureDefaultConfigFile creates a default config.yaml if absent.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileFullName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
