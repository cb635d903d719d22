package mcpserver

import (
	"bytes"
	"context"
	"io"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/tsorder/internal/manifest"
	"github.com/panbanda/tsorder/internal/output"
	"github.com/panbanda/tsorder/internal/service/analysis"
)

// SourceInput is the base input for all tools.
type SourceInput struct {
	Dir    string `json:"dir,omitempty" jsonschema:"Source directory. Defaults to the current directory."`
	Ref    string `json:"ref,omitempty" jsonschema:"Git revision to read instead of the working tree."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml, or markdown."`
}

// ManifestInput adds manifest options.
type ManifestInput struct {
	Dir      string `json:"dir,omitempty" jsonschema:"Source directory. Defaults to the current directory."`
	Ref      string `json:"ref,omitempty" jsonschema:"Git revision to read instead of the working tree."`
	Relative bool   `json:"relative,omitempty" jsonschema:"Write paths relative to dir with forward slashes."`
}

func getDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func getFormat(format string) output.Format {
	switch output.ParseFormat(format) {
	case output.FormatJSON:
		return output.FormatJSON
	case output.FormatYAML:
		return output.FormatYAML
	case output.FormatMarkdown:
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(view output.Renderable, format output.Format) (string, error) {
	var buf bytes.Buffer
	if err := output.NewWriterFormatter(format, &buf, io.Discard, false).Output(view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toolResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleOrderSources(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	result, err := s.svc.Order(ctx, getDir(input.Dir), analysis.Options{Ref: input.Ref})
	if err != nil {
		return toolError(err.Error())
	}
	if len(result.Paths) == 0 {
		return toolError("no source files found")
	}

	text, err := formatOutput(output.OrderView(result), getFormat(input.Format))
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(text)
}

func (s *Server) handleCheckInheritance(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	report, err := s.svc.Check(ctx, getDir(input.Dir), analysis.Options{Ref: input.Ref})
	if err != nil {
		return toolError(err.Error())
	}

	text, err := formatOutput(output.CheckView(report), getFormat(input.Format))
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(text)
}

func (s *Server) handleRenderManifest(ctx context.Context, req *mcp.CallToolRequest, input ManifestInput) (*mcp.CallToolResult, any, error) {
	dir := getDir(input.Dir)
	result, err := s.svc.Order(ctx, dir, analysis.Options{Ref: input.Ref})
	if err != nil {
		return toolError(err.Error())
	}

	base, err := filepath.Abs(dir)
	if err != nil {
		return toolError(err.Error())
	}
	var buf bytes.Buffer
	if err := manifest.Render(&buf, result.Paths, manifest.Options{Relative: input.Relative, BaseDir: base}); err != nil {
		return toolError(err.Error())
	}
	return toolResult(buf.String())
}
