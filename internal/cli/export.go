package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sjperalta/sitetrack-api/internal/config"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions, cfg *config.Config) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <table|workbook|dashboard>",
		Short: "Export a table as CSV, the whole workbook, or the dashboard PDF",
		Long: `Export data from the workbook.

A table name (companies, engineers, sites, assignments, fund_allocations,
expenses, audit_log) writes that table as CSV. "workbook" writes every table
into one xlsx file and "dashboard" writes the summaries as PDF.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cfg, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

func runExport(opts *ExportOptions, cfg *config.Config, target string, cmd *cobra.Command) error {
	svcs, err := openServices(opts.RootOptions, cfg)
	if err != nil {
		return err
	}

	var (
		data     []byte
		filename string
	)
	switch target {
	case "workbook":
		data, filename, err = svcs.Export.WorkbookXLSX(cmd.Context())
	case "dashboard":
		data, filename, err = svcs.Export.DashboardPDF(cmd.Context())
	default:
		data, filename, err = svcs.Export.TableCSV(cmd.Context(), target)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", target, err)
	}

	if opts.Output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, suggested name %s)\n", opts.Output, len(data), filename)
	return nil
}
