package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/invoicefile"
	"github.com/invoicekit/invoicekit/internal/application"
)

func newExportCmd() *cobra.Command {
	var (
		output     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "export <file|->",
		Short: "Export an invoice as a paginated A4 PDF",
		Long: "Render the invoice and write it as a PDF. Output defaults to export.dir with the " +
			"export.filename_pattern name; -o - streams the PDF to stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			inv, err := a.svc.Invoices.Load(args[0])
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := a.svc.Exports.WriteTo(cmd.Context(), inv, cmd.OutOrStdout())
				return err
			}

			source := ""
			if args[0] != invoicefile.Stdin {
				source = args[0]
			}
			res, err := a.svc.Exports.Export(cmd.Context(), inv, application.ExportOptions{
				Output:      output,
				Source:      source,
				ProjectPath: a.project,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, res)
			}
			pages := "1 page"
			if res.Pages != 1 {
				pages = fmt.Sprintf("%d pages", res.Pages)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%s) to %s\n", res.InvoiceNumber, pages, res.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory, or - for stdout")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the export result as JSON")
	return cmd
}
