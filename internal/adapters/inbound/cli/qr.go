package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newQRCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "qr <file|->",
		Short: "Write the payment QR code of an invoice as PNG",
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
			png, uri, err := a.svc.Payments.QR(inv)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(png)
				return err
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("writing qr code: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n%s\n", output, uri)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "payment-qr.png", "Output PNG file, or - for stdout")
	return cmd
}
