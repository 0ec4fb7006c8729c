package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/mark3labs/mcp-go/mcp"
)

// ValidateTool handles the status_validate MCP tool.
// It always reads the document fresh from its store, bypassing any cache,
// so edits made outside the server are checked as they are on disk.
type ValidateTool struct {
	store status.Store
}

// NewValidateTool creates a ValidateTool.
func NewValidateTool(store status.Store) *ValidateTool {
	return &ValidateTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("status_validate",
		mcp.WithDescription(
			"Validate the status document on disk against its schema. "+
				"Reports every violated field path and constraint.",
		),
	)
}

// Handle processes the status_validate tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, err := t.store.Load(ctx)
	if err == nil {
		return mcp.NewToolResultText(fmt.Sprintf("%s is valid", docName(t.store.Path()))), nil
	}

	var verr *status.ValidationError
	if !errors.As(err, &verr) {
		return mcp.NewToolResultError(err.Error()), nil
	}

	issues, mErr := json.MarshalIndent(verr.Issues, "", "  ")
	if mErr != nil {
		return nil, fmt.Errorf("marshaling issues: %w", mErr)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s validation failed\n\n", docName(t.store.Path()))
	b.WriteString("```json\n")
	b.Write(issues)
	b.WriteString("\n```\n")
	return mcp.NewToolResultError(b.String()), nil
}
