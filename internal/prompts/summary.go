// Package prompts implements MCP prompt handlers for the status document.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// SummaryPrompt handles the roadmap-summary MCP prompt.
// It asks the AI to read the document and summarize it for an audience.
type SummaryPrompt struct{}

// NewSummaryPrompt creates a SummaryPrompt.
func NewSummaryPrompt() *SummaryPrompt {
	return &SummaryPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *SummaryPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("roadmap-summary",
		mcp.WithPromptDescription(
			"Summarize where the network stands on the road to mainnet: "+
				"phase progress, open security findings and the next milestones.",
		),
		mcp.WithArgument("audience",
			mcp.ArgumentDescription("Who the summary is for, e.g. 'community', 'validators', 'press'. Default: community"),
		),
	)
}

// Handle processes the roadmap-summary prompt request.
func (p *SummaryPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	audience := "community"
	if args := req.Params.Arguments; args != nil {
		if a, ok := args["audience"]; ok && a != "" {
			audience = a
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Roadmap summary for the %s", audience),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please run `status_get` to read the current network status.\n\n"+
						"Then write a short update for the %s that:\n"+
						"1. States the overall trajectory and which phase is in progress\n"+
						"2. Summarizes security findings, public versus after priority fixes\n"+
						"3. Names the milestone in progress and the one up next\n"+
						"4. Ends with the governance forum and audit report links\n\n"+
						"Only use facts from the document. Mention when it was last updated.",
					audience,
				)),
			},
		},
	}, nil
}
