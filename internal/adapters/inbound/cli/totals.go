package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/tui"
	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/totals"
)

func newTotalsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "totals <file|->",
		Short: "Compute the totals of an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			inv, err := a.svc.Invoices.Load(args[0])
			if err != nil {
				return err
			}
			p := a.svc.Invoices.Prepare(inv)

			if jsonOutput {
				return renderJSON(cmd, map[string]any{
					"invoice_number":  p.Invoice.Details.Number,
					"currency":        p.Invoice.Details.Currency,
					"totals":          p.Totals,
					"line_totals":     totals.LineTotals(p.Invoice),
					"formatted_total": a.svc.Invoices.FormatAmount(p.Totals.Total, p.Invoice.Details.Currency),
				})
			}

			desc := a.svc.Invoices.Describe(p, domain.Assets{})
			fmt.Fprintf(cmd.OutOrStdout(), "\n  Invoice %s\n\n", p.Invoice.Details.Number)
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderTotals(desc.Totals, 40))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output totals as JSON")
	return cmd
}
