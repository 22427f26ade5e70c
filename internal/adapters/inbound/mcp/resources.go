package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/invoicekit/invoicekit/internal/domain"
)

const (
	currenciesURI = "invoicekit://currencies"
	historyURI    = "invoicekit://history"
)

func registerResources(s *server.MCPServer, hist domain.ExportHistory, projectPath string) {
	s.AddResource(
		mcplib.NewResource(
			currenciesURI,
			"Currencies",
			mcplib.WithResourceDescription("Supported currency codes, symbols and names"),
			mcplib.WithMIMEType("application/json"),
		),
		func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
			return jsonContents(currenciesURI, domain.Currencies)
		},
	)

	if hist == nil {
		return
	}
	s.AddResource(
		mcplib.NewResource(
			historyURI,
			"Export History",
			mcplib.WithResourceDescription("Invoices exported from this project"),
			mcplib.WithMIMEType("application/json"),
		),
		func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
			entries, err := hist.Load(projectPath)
			if err != nil {
				return nil, fmt.Errorf("loading export history: %w", err)
			}
			if entries == nil {
				entries = []domain.ExportEntry{}
			}
			return jsonContents(historyURI, entries)
		},
	)
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
