package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicekit/invoicekit/internal/domain/payment"
)

func newURICmd() *cobra.Command {
	var decode bool

	cmd := &cobra.Command{
		Use:   "uri <file|-> | uri --decode <uri>",
		Short: "Print the payment URI of an invoice, or decode one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if decode {
				req, err := payment.Parse(args[0])
				if err != nil {
					return fmt.Errorf("decoding payment uri: %w", err)
				}
				return renderJSON(cmd, req)
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			inv, err := a.svc.Invoices.Load(args[0])
			if err != nil {
				return err
			}
			uri, err := a.svc.Payments.URI(inv)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), uri)
			return nil
		},
	}

	cmd.Flags().BoolVar(&decode, "decode", false, "Decode a upi:// or paypal.me URI instead")
	return cmd
}
