// Config loading for the pantry CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/pantry/internal/paths"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys.
	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyDatabase   = "database"
	cfgKeyBlocking   = "migrations.blocking"
	cfgKeySeedPolicy = "migrations.seed_policy"
	cfgKeyLogLevel   = "log_level"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Pantry configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Database file inside the data directory
database: app.db

migrations:
  # Wait for the startup migration and fail if it fails
  blocking: false
  # What to do when a table fails to seed: continue or stop
  seed_policy: continue

# Log level (optional; overridable by --log-level flag)
# log_level: info
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDatabase, types.DefaultDatabaseFile)
	v.SetDefault(cfgKeyBlocking, false)
	v.SetDefault(cfgKeySeedPolicy, types.SeedContinue)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// storeConfig builds the Store configuration from config.yaml values.
func storeConfig(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Backend:  v.GetString(cfgKeyBackend),
		DataDir:  dataDir,
		Database: v.GetString(cfgKeyDatabase),
		Migrations: types.MigrationConfig{
			Blocking:   v.GetBool(cfgKeyBlocking),
			SeedPolicy: v.GetString(cfgKeySeedPolicy),
		},
	}
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
