package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/invoicekit/invoicekit/internal/domain/document"
)

func newMailtoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mailto <file|->",
		Short: "Print a mailto: link that sends the invoice to the client",
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
			fmt.Fprintln(cmd.OutOrStdout(), document.Mailto(p.Invoice, time.Now()))
			return nil
		},
	}
}
