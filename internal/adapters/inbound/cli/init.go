package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/config"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/invoicefile"
	"github.com/invoicekit/invoicekit/internal/domain"
)

const sampleFileName = "invoice.yaml"

func newInitCmd() *cobra.Command {
	var (
		scheme string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .invoicekit.yaml and a sample invoice",
		Long:  "Create a commented .invoicekit.yaml and a filled-in invoice.yaml to start from.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			ps := domain.PaymentScheme(scheme)
			valid := false
			for _, s := range domain.ValidPaymentSchemes {
				if ps == s {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("unknown payment scheme %q (valid: upi, paypal)", scheme)
			}

			configPath := filepath.Join(absPath, config.FileName)
			samplePath := filepath.Join(absPath, sampleFileName)
			if !force {
				for _, p := range []string{configPath, samplePath} {
					if _, err := os.Stat(p); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", filepath.Base(p))
					}
				}
			}

			if err := os.MkdirAll(absPath, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", absPath, err)
			}
			if err := os.WriteFile(configPath, []byte(config.Template(ps)), 0o644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			if err := invoicefile.New().Save(samplePath, invoicefile.Sample(ps, time.Now())); err != nil {
				return fmt.Errorf("writing sample invoice: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\nCreated %s\n", config.FileName, sampleFileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheme, "scheme", string(domain.SchemeUPI), "Payment scheme (upi, paypal)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}
