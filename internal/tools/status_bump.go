package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/HendryAvila/roadmap-status/internal/bump"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/mark3labs/mcp-go/mcp"
)

// BumpTool handles the status_bump MCP tool.
// It runs the same pipeline as `roadmap bump`: the document on disk is only
// replaced when the whole patched document validates.
type BumpTool struct {
	runner *bump.Runner
	loader *status.Loader
}

// NewBumpTool creates a BumpTool. loader may be nil; when set its cache is
// dropped after every write.
func NewBumpTool(runner *bump.Runner, loader *status.Loader) *BumpTool {
	return &BumpTool{runner: runner, loader: loader}
}

// Definition returns the MCP tool definition for registration.
func (t *BumpTool) Definition() mcp.Tool {
	return mcp.NewTool("status_bump",
		mcp.WithDescription(
			"Edit the status document. Edits apply in this order: overall, phases, "+
				"findings, set. The file is written only if the edited document is valid; "+
				"otherwise nothing changes and the violations are reported.",
		),
		mcp.WithNumber("overall",
			mcp.Description("New overall trajectory percentage (integer 0-100)."),
		),
		mcp.WithArray("phases",
			mcp.Description("Phase status updates as 'key:status', e.g. 'devnet:complete'."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithObject("findings",
			mcp.Description("Public finding counts to overwrite, e.g. {\"high\": 0}. Keys: high, medium, low, info."),
		),
		mcp.WithArray("set",
			mcp.Description("Dotted-path string assignments as 'path=value'. 'meta.lastUpdated=auto' stamps the current time."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Return the edited document without writing it."),
		),
	)
}

// Handle processes the status_bump tool call.
func (t *BumpTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := planFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if plan.Empty() {
		return mcp.NewToolResultError("no edits requested: provide at least one of overall, phases, findings, set"), nil
	}

	opts := bump.Options{DryRun: boolArg(req, "dry_run", false)}
	res, err := t.runner.Run(ctx, plan, opts)
	if err != nil {
		return bumpErrorResult(err)
	}

	if res.Written && t.loader != nil {
		t.loader.Reset()
	}

	if !res.Written {
		return mcp.NewToolResultText(fmt.Sprintf(
			"# Dry run\n\n%s\n\nThe document would become:\n\n```json\n%s```\n",
			plan.Summary(), res.Encoded,
		)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated %s: %s", docName(t.runner.Path()), plan.Summary())), nil
}

func planFromRequest(req mcp.CallToolRequest) (bump.Plan, error) {
	var plan bump.Plan

	overall, present, err := intArg(req, "overall")
	if err != nil {
		return plan, err
	}
	if present {
		plan.Overall = &overall
	}

	phases, err := stringsArg(req, "phases")
	if err != nil {
		return plan, err
	}
	for _, p := range phases {
		u, err := bump.ParsePhase(p)
		if err != nil {
			return plan, err
		}
		plan.Phases = append(plan.Phases, u)
	}

	findings, err := objectArg(req, "findings")
	if err != nil {
		return plan, err
	}
	for name := range findings {
		if _, err := bump.ParseSeverity(name); err != nil {
			return plan, err
		}
	}
	// Severity order keeps the plan deterministic; maps have none.
	for _, sev := range status.Severities {
		raw, ok := findings[string(sev)]
		if !ok {
			continue
		}
		v, isNum := raw.(float64)
		if !isNum || v != float64(int(v)) {
			return plan, fmt.Errorf("'findings.%s' must be an integer", sev)
		}
		plan.Findings = append(plan.Findings, bump.FindingUpdate{Severity: sev, Value: int(v)})
	}

	sets, err := stringsArg(req, "set")
	if err != nil {
		return plan, err
	}
	for _, s := range sets {
		op, err := bump.ParseSet(s)
		if err != nil {
			return plan, err
		}
		plan.Sets = append(plan.Sets, op)
	}

	return plan, nil
}

func bumpErrorResult(err error) (*mcp.CallToolResult, error) {
	var verr *status.ValidationError
	var lerr *bump.LookupError
	switch {
	case errors.As(err, &verr):
		var b strings.Builder
		b.WriteString("The edited document is invalid; nothing was written.\n\n")
		for _, is := range verr.Issues {
			fmt.Fprintf(&b, "- %s: %s\n", is.Path, is.Message)
		}
		return mcp.NewToolResultError(b.String()), nil
	case errors.As(err, &lerr):
		return mcp.NewToolResultError(lerr.Error() + "; nothing was written."), nil
	default:
		return mcp.NewToolResultError(err.Error()), nil
	}
}

func docName(path string) string {
	if path == "" {
		return status.DefaultFile
	}
	return filepath.Base(path)
}
