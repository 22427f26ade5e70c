package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/invoicefile"
	"github.com/invoicekit/invoicekit/internal/application"
	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/payment"
)

func invoiceArgs() []mcplib.ToolOption {
	return []mcplib.ToolOption{
		mcplib.WithString("invoice", mcplib.Description("Invoice document as YAML or JSON")),
		mcplib.WithString("path", mcplib.Description("Path to an invoice file, relative to the project (used when invoice is empty)")),
	}
}

// registerTools registers the invoice tools on the given server.
func registerTools(s *server.MCPServer, svc application.Services, projectPath string) {
	s.AddTool(
		mcplib.NewTool("invoice_totals",
			append([]mcplib.ToolOption{
				mcplib.WithDescription("Computes subtotal, discount, taxable base, tax, shipping and total of an invoice"),
			}, invoiceArgs()...)...,
		),
		handleTotals(svc, projectPath),
	)

	s.AddTool(
		mcplib.NewTool("invoice_validate",
			append([]mcplib.ToolOption{
				mcplib.WithDescription("Validates an invoice and lists every field violation"),
			}, invoiceArgs()...)...,
		),
		handleValidate(svc, projectPath),
	)

	s.AddTool(
		mcplib.NewTool("invoice_payment_uri",
			append([]mcplib.ToolOption{
				mcplib.WithDescription("Returns the UPI or PayPal.me payment URI for the invoice total"),
			}, invoiceArgs()...)...,
		),
		handlePaymentURI(svc, projectPath),
	)

	s.AddTool(
		mcplib.NewTool("invoice_export",
			append([]mcplib.ToolOption{
				mcplib.WithDescription("Exports the invoice as a paginated A4 PDF and returns where it was written"),
				mcplib.WithString("output", mcplib.Description("Output file or directory (default: configured export directory)")),
			}, invoiceArgs()...)...,
		),
		handleExport(svc, projectPath),
	)

	s.AddTool(
		mcplib.NewTool("invoice_format_amount",
			mcplib.WithDescription("Formats an amount with a currency symbol and grouping, e.g. ₹5,900.00"),
			mcplib.WithNumber("amount", mcplib.Required(), mcplib.Description("Amount to format")),
			mcplib.WithString("currency", mcplib.Description("ISO 4217 code (default: configured currency)")),
		),
		handleFormatAmount(svc),
	)
}

func handleTotals(svc application.Services, projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		inv, err := loadInvoice(svc, projectPath, request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		p := svc.Invoices.Prepare(inv)
		return jsonResult(map[string]any{
			"invoice_number":  p.Invoice.Details.Number,
			"currency":        p.Invoice.Details.Currency,
			"totals":          p.Totals,
			"formatted_total": svc.Invoices.FormatAmount(p.Totals.Total, p.Invoice.Details.Currency),
		})
	}
}

func handleValidate(svc application.Services, projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		inv, err := loadInvoice(svc, projectPath, request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		err = svc.Invoices.Validate(inv)
		var ve *domain.ValidationError
		switch {
		case err == nil:
			return jsonResult(map[string]any{"valid": true, "violations": []domain.FieldViolation{}})
		case errors.As(err, &ve):
			return jsonResult(map[string]any{"valid": false, "violations": ve.Violations})
		default:
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
	}
}

func handlePaymentURI(svc application.Services, projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		inv, err := loadInvoice(svc, projectPath, request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		uri, err := svc.Payments.URI(inv)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		req, err := payment.Parse(uri)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(map[string]any{"uri": uri, "request": req})
	}
}

func handleExport(svc application.Services, projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		inv, err := loadInvoice(svc, projectPath, request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		args := request.GetArguments()
		output, _ := args["output"].(string)
		if output != "" && !filepath.IsAbs(output) {
			output = filepath.Join(projectPath, output)
		}
		source, _ := args["path"].(string)
		if source != "" {
			source = resolve(projectPath, source)
		}

		res, err := svc.Exports.Export(ctx, inv, application.ExportOptions{
			Output:      output,
			Source:      source,
			ProjectPath: projectPath,
		})
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(res)
	}
}

func handleFormatAmount(svc application.Services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		amount, ok := args["amount"].(float64)
		if !ok {
			return errorResult("amount must be a number"), nil
		}
		code, _ := args["currency"].(string)
		if code == "" {
			code = svc.Invoices.Config().DefaultCurrency
		}
		return textResult(svc.Invoices.FormatAmount(amount, code)), nil
	}
}

// loadInvoice reads the invoice from the inline "invoice" argument or,
// failing that, from the file named by "path".
func loadInvoice(svc application.Services, projectPath string, request mcplib.CallToolRequest) (domain.Invoice, error) {
	args := request.GetArguments()
	if doc, _ := args["invoice"].(string); doc != "" {
		inv, err := invoicefile.Decode([]byte(doc))
		if err != nil {
			return domain.Invoice{}, fmt.Errorf("parsing invoice: %w", err)
		}
		return inv, nil
	}
	path, _ := args["path"].(string)
	if path == "" {
		return domain.Invoice{}, fmt.Errorf("either invoice or path is required")
	}
	return svc.Invoices.Load(resolve(projectPath, path))
}

func resolve(projectPath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectPath, path)
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
