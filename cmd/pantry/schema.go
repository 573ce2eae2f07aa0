// Schema command for the pantry CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/pantry/internal/sqlite"
)

func newSchemaCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the declared schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := sqlite.Schema()
			if c.json {
				return printJSON(cmd.OutOrStdout(), tables)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(tables); err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			return enc.Close()
		},
	}
}
