// Config commands for the pantry CLI.
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/internal/settings"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write stored settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print the JSON value stored under key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSettings(cmd, func(svc *settings.Service) error {
					raw, err := svc.GetRaw(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(raw))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <key> <json>",
			Short: "Replace the value of an existing key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSettings(cmd, func(svc *settings.Service) error {
					return svc.UpdateRaw(cmd.Context(), args[0], []byte(args[1]))
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSettings(cmd, func(svc *settings.Service) error {
					entries, err := svc.GetAll(cmd.Context())
					if err != nil {
						return err
					}
					if c.json {
						return printJSON(cmd.OutOrStdout(), entries)
					}
					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "KEY\tVALUE\tDESCRIPTION")
					for _, e := range entries {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Value, e.Description)
					}
					return tw.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "delete <key>",
			Short: "Delete a stored setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSettings(cmd, func(svc *settings.Service) error {
					return svc.Delete(cmd.Context(), args[0])
				})
			},
		},
	)
	return cmd
}

// withSettings attaches the backend, waits for the startup migration, and
// runs fn with a settings service.
func (c *cli) withSettings(cmd *cobra.Command, fn func(*settings.Service) error) error {
	backend, err := c.attachBackend(false)
	if err != nil {
		return err
	}
	defer backend.Detach()

	configs, err := configsAfterMigration(cmd.Context(), backend)
	if err != nil {
		return err
	}
	return fn(settings.NewService(configs))
}
