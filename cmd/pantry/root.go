// Root command for the pantry CLI.
package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/pantry/internal/logging"
	"github.com/mesh-intelligence/pantry/internal/paths"
	"github.com/mesh-intelligence/pantry/pkg/pantry"
)

// cli holds global flag values and the state loaded by PersistentPreRunE.
type cli struct {
	configDir string
	dataDir   string
	logLevel  string
	json      bool

	cfg    *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "pantry",
		Short:         "Pantry keeps an application's SQLite schema and settings in shape",
		Version:       pantry.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.load(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&c.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error (default: $PANTRY_LOG_LEVEL or info)")
	root.PersistentFlags().BoolVar(&c.json, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(c),
		newMigrateCmd(c),
		newSchemaCmd(c),
		newConfigCmd(c),
	)
	return root
}

// load reads config.yaml and builds the logger. The --log-level flag wins
// over config.yaml log_level, which wins over PANTRY_LOG_LEVEL.
func (c *cli) load(w io.Writer) error {
	dir, err := c.resolveConfigDir()
	if err != nil {
		return err
	}
	if c.cfg, err = loadConfig(dir); err != nil {
		return err
	}

	envCfg, err := logging.ParseEnv()
	if err != nil {
		return err
	}
	level := c.logLevel
	if level == "" {
		level = c.cfg.GetString(cfgKeyLogLevel)
	}
	if c.logger, err = logging.New(w, envCfg, level); err != nil {
		return err
	}
	slog.SetDefault(c.logger)
	return nil
}

func (c *cli) cfgString(key string) string {
	if c.cfg == nil {
		return ""
	}
	return c.cfg.GetString(key)
}

// resolveConfigDir applies flag > PANTRY_CONFIG_DIR > platform default.
func (c *cli) resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(c.configDir)
}

// resolveDataDir applies flag > config.yaml data_dir > PANTRY_DATA_DIR >
// platform default.
func (c *cli) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(c.dataDir, c.cfgString(cfgKeyDataDir))
}
