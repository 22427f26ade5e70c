package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/tui"
	"github.com/invoicekit/invoicekit/internal/domain"
)

func newHistoryCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show invoices exported from this project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			entries, err := a.history.Load(a.project)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			if jsonOutput {
				if entries == nil {
					entries = []domain.ExportEntry{}
				}
				return renderJSON(cmd, entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")
	return cmd
}
