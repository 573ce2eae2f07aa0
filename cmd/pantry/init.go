// Init command for the pantry CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config directory, data directory, and database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := c.resolveConfigDir()
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}

			backend, err := c.attachBackend(true)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			defer backend.Detach()

			db, err := backend.DB()
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Pantry initialized successfully")
			fmt.Fprintln(out, "  config:  ", configDir)
			fmt.Fprintln(out, "  database:", db.Path())
			return nil
		},
	}
}
