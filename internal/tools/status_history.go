package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HendryAvila/roadmap-status/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// HistoryReader is the read side of the revision log.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]history.Revision, error)
	Get(ctx context.Context, id string) (*history.Revision, error)
}

// HistoryTool handles the status_history MCP tool.
type HistoryTool struct {
	history HistoryReader
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(h HistoryReader) *HistoryTool {
	return &HistoryTool{history: h}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("status_history",
		mcp.WithDescription(
			"List recorded revisions of the status document, newest first, "+
				"or show one revision's full document by id.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum revisions to list. Defaults to 20."),
		),
		mcp.WithString("id",
			mcp.Description("Revision id (or a unique prefix of at least 8 characters) to show in full."),
		),
	)
}

// Handle processes the status_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := req.GetString("id", ""); id != "" {
		rev, err := t.history.Get(ctx, id)
		if errors.Is(err, history.ErrNotFound) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"# Revision %s\n\n**Recorded:** %s\n**Change:** `%s`\n\n```json\n%s```\n",
			rev.ID, rev.CreatedAt.Format(time.RFC3339), rev.Summary, rev.Document,
		)), nil
	}

	limit, _, err := intArg(req, "limit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	revs, err := t.history.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return mcp.NewToolResultText("No revisions recorded yet."), nil
	}

	var b strings.Builder
	b.WriteString("# Status history\n\n")
	b.WriteString("| Revision | Recorded | Overall | Change |\n")
	b.WriteString("|----------|----------|--------:|--------|\n")
	for _, rev := range revs {
		fmt.Fprintf(&b, "| `%s` | %s | %g%% | `%s` |\n",
			rev.ID[:8], rev.CreatedAt.Format(time.RFC3339), rev.OverallPct, rev.Summary)
	}
	return mcp.NewToolResultText(b.String()), nil
}
