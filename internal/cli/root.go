// Package cli implements sitectl, the operator command line for the workbook.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sjperalta/sitetrack-api/internal/config"
	"github.com/sjperalta/sitetrack-api/internal/repository"
	"github.com/sjperalta/sitetrack-api/internal/services"
	"github.com/sjperalta/sitetrack-api/internal/workbook"
	"github.com/sjperalta/sitetrack-api/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DataFile    string
	LockFile    string
	LockTimeout time.Duration
	Format      string // "json" | "text"
	Verbose     bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Flag defaults come from cfg so the
// CLI and the API agree on where the workbook lives.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sitectl",
		Short: "sitectl - SiteTrack operator tool",
		Long:  "Initialize, summarize and export the SiteTrack construction workbook.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			// A workbook given on the command line gets its own lock file
			if cmd.Flags().Changed("data") && !cmd.Flags().Changed("lock") {
				opts.LockFile = opts.DataFile + ".lock"
			}
			if opts.Verbose {
				logger.Setup("development")
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DataFile, "data", cfg.DataFile, "workbook path")
	cmd.PersistentFlags().StringVar(&opts.LockFile, "lock", cfg.LockFile, "lock file path")
	cmd.PersistentFlags().DurationVar(&opts.LockTimeout, "lock-timeout", cfg.LockTimeout, "how long to wait for the workbook lock")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts, cfg))
	cmd.AddCommand(NewExportCommand(opts, cfg))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func openStore(opts *RootOptions) (*workbook.Store, error) {
	return workbook.New(opts.DataFile, opts.LockFile, opts.LockTimeout)
}

// openServices wires the read side of the service layer over the workbook.
// Receipts are never written from the CLI.
func openServices(opts *RootOptions, cfg *config.Config) (*services.Services, error) {
	store, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	return services.NewServices(repository.NewRepositories(store), store, nil, cfg, nil), nil
}
