package cli

import (
	"github.com/spf13/cobra"

	"github.com/invoicekit/invoicekit/internal/adapters/inbound/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stateless invoice HTTP API",
		Long:  "Serve POST /api/v1/invoices/{totals,validate,payment-uri,qr,export} until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newRemoteApp(cmd)
			if err != nil {
				return err
			}
			cfg := a.cfg.HTTP
			if addr != "" {
				cfg.Addr = addr
			}
			return httpapi.New(a.svc, cfg, a.logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from http.addr)")
	return cmd
}
