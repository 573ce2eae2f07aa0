// Migrate command for the pantry CLI.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Reconcile the database schema and seed defaults",
		Long: `Migrate creates missing tables, columns, indexes, and triggers, then
inserts default rows that are absent. Existing objects and rows are never
changed. The command waits for the run and fails if it fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.attachBackend(true)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer backend.Detach()

			result, err := backend.WaitMigrated(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if c.json {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func printResult(w io.Writer, r types.MigrationResult) {
	fmt.Fprintln(w, "run:", r.RunID)
	if !r.Changed() {
		fmt.Fprintln(w, "schema up to date")
	}
	for _, line := range []struct {
		label string
		items []string
	}{
		{"tables created", r.TablesCreated},
		{"columns added", r.ColumnsAdded},
		{"columns skipped", r.ColumnsSkipped},
		{"indexes created", r.IndexesCreated},
		{"triggers created", r.TriggersCreated},
		{"seeded", r.SeededTables},
	} {
		if len(line.items) > 0 {
			fmt.Fprintf(w, "%s: %s\n", line.label, strings.Join(line.items, ", "))
		}
	}
}
