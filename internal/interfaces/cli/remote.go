package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/agreemshield/agreemshield/pkg/client"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// newRemoteClient builds an SDK client pointed at the configured server.
func newRemoteClient(root *RootOptions) (*client.Client, error) {
	return client.NewClient(root.ServerAddr)
}

type listOptions struct {
	page      int
	pageSize  int
	riskLevel string
	asJSON    bool
}

func newListCommand(root *RootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List analyses on a remote agreemshield server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := newRemoteClient(root)
			if err != nil {
				return err
			}
			page, err := cl.ListAnalyses(cmd.Context(), client.ListAnalysesOptions{
				Page:      opts.page,
				PageSize:  opts.pageSize,
				RiskLevel: common.RiskLevel(opts.riskLevel),
			})
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), page)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFILENAME\tTYPE\tSCORE\tLEVEL\tCLAUSES\tANALYZED")
			for _, a := range page.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\t%d\t%s\n",
					a.ID, a.Filename, a.StartupType, a.OverallScore,
					a.OverallLevel, a.ClauseCount,
					time.Time(a.AnalyzedAt).Format("2006-01-02 15:04"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d analyses (page %d/%d)\n",
				len(page.Items), page.Total, page.Page, page.TotalPages)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 20, "results per page")
	cmd.Flags().StringVar(&opts.riskLevel, "risk-level", "", "filter by overall risk level")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "output raw JSON")

	return cmd
}

func newGetCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <analysis-id>",
		Short: "Fetch a full analysis from a remote agreemshield server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := common.ID(args[0])
			if err := id.Validate(); err != nil {
				return err
			}
			cl, err := newRemoteClient(root)
			if err != nil {
				return err
			}
			dto, err := cl.GetAnalysis(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto)
		},
	}
}

func newStatsCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show platform-wide analysis statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := newRemoteClient(root)
			if err != nil {
				return err
			}
			stats, err := cl.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}
