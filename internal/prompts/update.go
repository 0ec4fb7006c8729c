package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// UpdatePrompt handles the roadmap-update MCP prompt.
// It turns a plain-language change into a reviewed status_bump call.
type UpdatePrompt struct{}

// NewUpdatePrompt creates an UpdatePrompt.
func NewUpdatePrompt() *UpdatePrompt {
	return &UpdatePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *UpdatePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("roadmap-update",
		mcp.WithPromptDescription(
			"Apply a change to the status document, e.g. 'devnet relaunched, high findings fixed'. "+
				"Previews the edit before writing it.",
		),
		mcp.WithArgument("change",
			mcp.ArgumentDescription("The change to record, in plain language"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the roadmap-update prompt request.
func (p *UpdatePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	change := ""
	if args := req.Params.Arguments; args != nil {
		change = args["change"]
	}
	if change == "" {
		return nil, fmt.Errorf("argument 'change' is required")
	}

	return &mcp.GetPromptResult{
		Description: "Update the status document",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to record this change in the status document: %q\n\n"+
						"Please:\n"+
						"1. Run `status_get` with format='json' to see the current document\n"+
						"2. Translate the change into `status_bump` arguments (overall, phases, findings, set)\n"+
						"3. Call `status_bump` with dry_run=true and show me the result\n"+
						"4. After I confirm, call it again without dry_run and include set=['meta.lastUpdated=auto']\n\n"+
						"If a value does not fit the schema, tell me instead of guessing.",
					change,
				)),
			},
		},
	}, nil
}
