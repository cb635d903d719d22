// Package mcpserver exposes source ordering as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/tsorder/internal/service/analysis"
)

// Server wraps the MCP server and registers the tsorder tools.
type Server struct {
	server *mcp.Server
	svc    *analysis.Service
}

// NewServer creates a new MCP server with all tools registered. A nil svc
// uses a service with the configuration found in the working directory.
func NewServer(version string, svc *analysis.Service) *Server {
	if version == "" {
		version = "dev"
	}
	if svc == nil {
		svc = analysis.New()
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "tsorder",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, svc: svc}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "order_sources",
		Description: describeOrder(),
	}, s.handleOrderSources)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_inheritance",
		Description: describeCheck(),
	}, s.handleCheckInheritance)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_manifest",
		Description: describeManifest(),
	}, s.handleRenderManifest)
}
