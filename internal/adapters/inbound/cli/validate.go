package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/tui"
	"github.com/invoicekit/invoicekit/internal/domain"
)

func newValidateCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate <file|->",
		Short: "Check an invoice for missing or malformed fields",
		Long:  "Validate an invoice file and list every violation. Exits non-zero when the invoice is invalid.",
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

			err = a.svc.Invoices.Validate(inv)
			var ve *domain.ValidationError
			if err != nil && !errors.As(err, &ve) {
				return fmt.Errorf("validating invoice: %w", err)
			}

			if jsonOutput {
				violations := []domain.FieldViolation{}
				if ve != nil {
					violations = ve.Violations
				}
				if err := renderJSON(cmd, map[string]any{"valid": ve == nil, "violations": violations}); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderViolations(ve))
			}

			if ve != nil {
				return fmt.Errorf("invoice has %d problems", len(ve.Violations))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output violations as JSON")
	return cmd
}
