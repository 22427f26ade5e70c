package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/invoicekit/invoicekit/internal/application"
	"github.com/invoicekit/invoicekit/internal/domain"
)

// NewServer creates an MCP server exposing the invoice tools and
// resources. projectPath is where invoice paths resolve and where the
// export history lives.
func NewServer(svc application.Services, hist domain.ExportHistory, projectPath, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"invoicekit",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc, projectPath)
	registerResources(s, hist, projectPath)

	return s
}
