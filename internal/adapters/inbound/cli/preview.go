package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/tui"
)

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file|->",
		Short: "Print the invoice as it will be exported",
		Long:  "Render only the invoice content to the terminal. Images are omitted; the payment link is printed instead of its QR code.",
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
			desc := a.svc.Exports.Document(cmd.Context(), inv)
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPreview(desc))
			return nil
		},
	}
}
