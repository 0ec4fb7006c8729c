package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	roadmap "github.com/HendryAvila/roadmap-status"
	"github.com/HendryAvila/roadmap-status/internal/bump"
	"github.com/HendryAvila/roadmap-status/internal/history"
	"github.com/HendryAvila/roadmap-status/internal/report"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

// setupDocument writes the shipped status.json into a temp dir and returns
// its path.
func setupDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "status.json")
	if err := os.WriteFile(path, roadmap.StatusJSON, 0o644); err != nil {
		t.Fatalf("setup: write status.json: %v", err)
	}
	return path
}

func newRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// --- GetTool ---

func TestGetTool_Markdown(t *testing.T) {
	path := setupDocument(t)
	renderer, err := report.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	tool := NewGetTool(status.NewLoader(status.FileSource{Path: path}), renderer)

	result, err := tool.Handle(context.Background(), newRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "# Road to Mainnet") {
		t.Errorf("markdown report expected, got: %s", getResultText(result))
	}
}

func TestGetTool_JSON(t *testing.T) {
	path := setupDocument(t)
	renderer, _ := report.NewRenderer()
	tool := NewGetTool(status.NewLoader(status.FileSource{Path: path}), renderer)

	result, err := tool.Handle(context.Background(), newRequest(map[string]any{"format": "json"}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got := getResultText(result); got != string(roadmap.StatusJSON) {
		t.Errorf("json output should match the document byte for byte, got:\n%s", got)
	}
}

func TestGetTool_InvalidFormat(t *testing.T) {
	renderer, _ := report.NewRenderer()
	tool := NewGetTool(status.NewLoader(status.BytesSource{Label: "embedded", Data: roadmap.StatusJSON}), renderer)

	result, _ := tool.Handle(context.Background(), newRequest(map[string]any{"format": "yaml"}))
	if !isErrorResult(result) {
		t.Error("expected error for unknown format")
	}
}

func TestGetTool_InvalidDocument(t *testing.T) {
	renderer, _ := report.NewRenderer()
	tool := NewGetTool(status.NewLoader(status.BytesSource{Label: "broken", Data: []byte(`{"meta":{}}`)}), renderer)

	result, err := tool.Handle(context.Background(), newRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("expected error for invalid document")
	}
}

// --- ValidateTool ---

func TestValidateTool_Valid(t *testing.T) {
	tool := NewValidateTool(status.NewFileStore(setupDocument(t)))

	result, err := tool.Handle(context.Background(), newRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got: %s", getResultText(result))
	}
	if got := getResultText(result); got != "status.json is valid" {
		t.Errorf("text = %q", got)
	}
}

func TestValidateTool_ListsIssues(t *testing.T) {
	path := setupDocument(t)
	broken := strings.Replace(string(roadmap.StatusJSON), `"overallTrajectoryPct": 62`, `"overallTrajectoryPct": 120`, 1)
	broken = strings.Replace(broken, `"high": 3`, `"high": -1`, 1)
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}
	tool := NewValidateTool(status.NewFileStore(path))

	result, err := tool.Handle(context.Background(), newRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected validation failure")
	}
	text := getResultText(result)
	for _, want := range []string{"status.json validation failed", "meta.overallTrajectoryPct", "security.publicFindings.high"} {
		if !strings.Contains(text, want) {
			t.Errorf("result should mention %q, got:\n%s", want, text)
		}
	}
}

func TestValidateTool_MissingFile(t *testing.T) {
	tool := NewValidateTool(status.NewFileStore(filepath.Join(t.TempDir(), "status.json")))

	result, err := tool.Handle(context.Background(), newRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("expected error for missing file")
	}
}

// --- BumpTool ---

func newBumpTool(t *testing.T, path string) (*BumpTool, *status.Loader) {
	t.Helper()
	loader := status.NewLoader(status.FileSource{Path: path})
	runner := bump.NewRunner(status.NewFileStore(path), nil)
	return NewBumpTool(runner, loader), loader
}

func TestBumpTool_Writes(t *testing.T) {
	path := setupDocument(t)
	tool, loader := newBumpTool(t, path)

	before, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	result, err := tool.Handle(context.Background(), newRequest(map[string]any{
		"overall":  float64(70),
		"phases":   []any{"devnet:complete", "testnet:in_progress"},
		"findings": map[string]any{"medium": float64(10)},
		"set":      []any{"links.technicalDocs=https://docs.example.org"},
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.HasPrefix(text, "Updated status.json: --overall 70") {
		t.Errorf("result should name the document and the edits, got: %s", text)
	}

	after, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if after == before {
		t.Error("loader cache should be reset after a write")
	}
	if after.Meta.OverallTrajectoryPct != 70 {
		t.Errorf("overall = %v, want 70", after.Meta.OverallTrajectoryPct)
	}
	if after.Phase(status.PhaseDevnet).Status != status.PhaseComplete {
		t.Error("devnet should be complete")
	}
	if after.Security.PublicFindings.Medium != 10 {
		t.Errorf("medium = %d, want 10", after.Security.PublicFindings.Medium)
	}
	if after.Links.TechnicalDocs != "https://docs.example.org" {
		t.Errorf("technicalDocs = %s", after.Links.TechnicalDocs)
	}
}

func TestBumpTool_InvalidResultLeavesFile(t *testing.T) {
	path := setupDocument(t)
	tool, _ := newBumpTool(t, path)

	result, err := tool.Handle(context.Background(), newRequest(map[string]any{"overall": float64(150)}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error for out-of-range overall")
	}
	if !strings.Contains(getResultText(result), "meta.overallTrajectoryPct") {
		t.Errorf("error should name the field, got: %s", getResultText(result))
	}
	if readFile(t, path) != string(roadmap.StatusJSON) {
		t.Error("file must be unchanged")
	}
}

func TestBumpTool_UnknownPhase(t *testing.T) {
	path := setupDocument(t)
	tool, _ := newBumpTool(t, path)

	result, _ := tool.Handle(context.Background(), newRequest(map[string]any{"phases": []any{"unknownkey:complete"}}))
	if !isErrorResult(result) {
		t.Fatal("expected lookup error")
	}
	if !strings.Contains(getResultText(result), "phase not found: unknownkey") {
		t.Errorf("got: %s", getResultText(result))
	}
	if readFile(t, path) != string(roadmap.StatusJSON) {
		t.Error("file must be unchanged")
	}
}

func TestBumpTool_BadArguments(t *testing.T) {
	path := setupDocument(t)
	tool, _ := newBumpTool(t, path)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"no edits", map[string]any{}},
		{"fractional overall", map[string]any{"overall": 12.5}},
		{"string overall", map[string]any{"overall": "12"}},
		{"phase without status", map[string]any{"phases": []any{"devnet"}}},
		{"phase with extra colon", map[string]any{"phases": []any{"devnet:in_progress:x"}}},
		{"unknown severity", map[string]any{"findings": map[string]any{"critical": float64(1)}}},
		{"non-numeric finding", map[string]any{"findings": map[string]any{"high": "x"}}},
		{"set without =", map[string]any{"set": []any{"meta.lastUpdated"}}},
		{"set not strings", map[string]any{"set": []any{float64(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), newRequest(tt.args))
			if err != nil {
				t.Fatalf("Handle failed: %v", err)
			}
			if !isErrorResult(result) {
				t.Errorf("expected tool error, got: %s", getResultText(result))
			}
		})
	}
	if readFile(t, path) != string(roadmap.StatusJSON) {
		t.Error("file must be unchanged")
	}
}

func TestBumpTool_DryRun(t *testing.T) {
	path := setupDocument(t)
	tool, _ := newBumpTool(t, path)

	result, err := tool.Handle(context.Background(), newRequest(map[string]any{
		"overall": float64(80),
		"dry_run": true,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), `"overallTrajectoryPct": 80`) {
		t.Errorf("dry run should show the edited document, got: %s", getResultText(result))
	}
	if readFile(t, path) != string(roadmap.StatusJSON) {
		t.Error("dry run must not write")
	}
}

// --- HistoryTool ---

type fakeHistory struct {
	revs []history.Revision
}

func (f *fakeHistory) List(ctx context.Context, limit int) ([]history.Revision, error) {
	return f.revs, nil
}

func (f *fakeHistory) Get(ctx context.Context, id string) (*history.Revision, error) {
	for i := range f.revs {
		if strings.HasPrefix(f.revs[i].ID, id) {
			return &f.revs[i], nil
		}
	}
	return nil, history.ErrNotFound
}

func TestHistoryTool_List(t *testing.T) {
	h := &fakeHistory{revs: []history.Revision{{
		ID:         "0b9d2f4e-6a51-4c1e-9a0c-2f3c7a1e5d00",
		CreatedAt:  time.Date(2025, 12, 3, 16, 0, 0, 0, time.UTC),
		Summary:    "--overall 62",
		OverallPct: 62,
	}}}
	tool := NewHistoryTool(h)

	result, err := tool.Handle(context.Background(), newRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	text := getResultText(result)
	for _, want := range []string{"`0b9d2f4e`", "2025-12-03T16:00:00Z", "62%", "--overall 62"} {
		if !strings.Contains(text, want) {
			t.Errorf("history should contain %q, got:\n%s", want, text)
		}
	}
}

func TestHistoryTool_Empty(t *testing.T) {
	tool := NewHistoryTool(&fakeHistory{})
	result, _ := tool.Handle(context.Background(), newRequest(nil))
	if !strings.Contains(getResultText(result), "No revisions") {
		t.Errorf("got: %s", getResultText(result))
	}
}

func TestHistoryTool_Show(t *testing.T) {
	h := &fakeHistory{revs: []history.Revision{{
		ID:       "0b9d2f4e-6a51-4c1e-9a0c-2f3c7a1e5d00",
		Summary:  "--phase devnet:complete",
		Document: roadmap.StatusJSON,
	}}}
	tool := NewHistoryTool(h)

	result, err := tool.Handle(context.Background(), newRequest(map[string]any{"id": "0b9d2f4e"}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), `"overallTrajectoryPct": 62`) {
		t.Errorf("show should include the document, got: %s", getResultText(result))
	}

	result, _ = tool.Handle(context.Background(), newRequest(map[string]any{"id": "ffffffff"}))
	if !isErrorResult(result) {
		t.Error("expected error for unknown id")
	}
}
