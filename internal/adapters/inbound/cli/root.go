package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoicekit",
		Short: "Compute, validate and export invoices",
		Long: "invoicekit computes invoice totals, encodes UPI and PayPal.me payment requests as QR codes " +
			"and exports print-faithful, paginated A4 PDFs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("project", ".", "Project directory holding .invoicekit.yaml and the export history")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newTotalsCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newURICmd())
	cmd.AddCommand(newQRCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newMailtoCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI. ctx is cancelled on interrupt, which stops
// long-running commands such as serve.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
