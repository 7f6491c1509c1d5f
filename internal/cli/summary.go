package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sjperalta/sitetrack-api/internal/config"
	"github.com/sjperalta/sitetrack-api/internal/models"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:          "summary <sites|engineers>",
		Short:        "Print the dashboard rollups",
		Args:         cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:    []string{"sites", "engineers"},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := openServices(rootOpts, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch args[0] {
			case "sites":
				rows, err := svcs.Dashboard.SiteSummary(cmd.Context())
				if err != nil {
					return err
				}
				if rootOpts.Format == "json" {
					return writeJSON(out, rows)
				}
				return writeSiteTable(out, rows)
			default:
				rows, err := svcs.Dashboard.EngineerSummary(cmd.Context())
				if err != nil {
					return err
				}
				if rootOpts.Format == "json" {
					return writeJSON(out, rows)
				}
				return writeEngineerTable(out, rows)
			}
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSiteTable(w io.Writer, rows []models.SiteSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SITE\tLOCATION\tSTATUS\tTOTAL SPENT\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", r.SiteName, r.Location, r.Status, models.FormatAmount(r.TotalSpent))
	}
	return tw.Flush()
}

func writeEngineerTable(w io.Writer, rows []models.EngineerSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ENGINEER\tROLE\tALLOCATED\tSPENT\tBALANCE\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", r.Name, r.Role,
			models.FormatAmount(r.TotalAlloc), models.FormatAmount(r.TotalSpent), models.FormatAmount(r.Balance))
	}
	return tw.Flush()
}
