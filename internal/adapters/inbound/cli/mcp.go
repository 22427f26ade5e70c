package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/invoicekit/invoicekit/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the invoicekit MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start invoicekit MCP server (stdio)",
		Long:  "Start the invoicekit MCP server using stdio transport. Assistants can compute totals, validate, encode payment links and export invoices.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			s := mcpadapter.NewServer(a.svc, a.history, a.project, version)
			return server.ServeStdio(s)
		},
	}
}
