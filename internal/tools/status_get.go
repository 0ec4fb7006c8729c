package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/roadmap-status/internal/report"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetTool handles the status_get MCP tool.
// It returns the validated document as a Markdown report or as JSON.
type GetTool struct {
	loader   *status.Loader
	renderer *report.Renderer
}

// NewGetTool creates a GetTool.
func NewGetTool(loader *status.Loader, renderer *report.Renderer) *GetTool {
	return &GetTool{loader: loader, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *GetTool) Definition() mcp.Tool {
	return mcp.NewTool("status_get",
		mcp.WithDescription(
			"Read the network status document: phase progress, security findings, "+
				"the road-to-mainnet timeline and outbound links.",
		),
		mcp.WithString("format",
			mcp.Description("'markdown' for a readable report, 'json' for the raw document. Defaults to 'markdown'."),
			mcp.DefaultString("markdown"),
			mcp.Enum("markdown", "json"),
		),
	)
}

// Handle processes the status_get tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "markdown")
	if format != "markdown" && format != "json" {
		return mcp.NewToolResultError("'format' must be 'markdown' or 'json'"), nil
	}

	doc, err := t.loader.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading status document: %v", err)), nil
	}

	if format == "json" {
		data, err := status.Encode(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding status document: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	md, err := t.renderer.Markdown(doc)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(md), nil
}
