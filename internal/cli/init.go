package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the workbook with every table's header",
		Long: `Create the workbook if it does not exist, with one header-only sheet per table.

Existing workbooks keep their data; only missing sheets are added.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			if err := store.EnsureInitialized(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "workbook ready: %s\n", store.Path())
			return nil
		},
	}
}
