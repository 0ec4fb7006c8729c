package report

import (
	"strings"
	"testing"

	roadmap "github.com/HendryAvila/roadmap-status"
	"github.com/HendryAvila/roadmap-status/internal/status"
)

func fixture(t *testing.T) *status.Document {
	t.Helper()
	doc, err := status.Decode(roadmap.StatusJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return doc
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

// --- Markdown ---

func TestMarkdown_Fixture(t *testing.T) {
	out, err := newRenderer(t).Markdown(fixture(t))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}

	checks := []string{
		"# Road to Mainnet",
		"_Last updated Dec 3rd, 2025_",
		"**Overall trajectory:** 62%",
		"Horizon (Devnet) is in progress. Adiri (Testnet) and Mainnet are upcoming.",
		"### Horizon (Devnet) (In progress)",
		"### Mainnet (Upcoming)",
		"| High | 3 | 0 |",
		"| Info | 12 | 12 |",
		"| **Total** | **65** | **62** |",
		"- Priority findings addressed and patched",
		"1. ▶ Fix remaining vulnerabilities _in progress_",
		"2. › Relaunch Horizon _up next_",
		"5. ○ Mainnet launch _planned_",
		"[Audit reports](https://github.com/Telcoin-Association/tn-audits)",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestMarkdown_UnparsableDateFallsBack(t *testing.T) {
	doc := fixture(t)
	doc.Meta.LastUpdated = "sometime"

	out, err := newRenderer(t).Markdown(doc)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(out, "_Last updated sometime_") {
		t.Error("raw lastUpdated should be shown when it does not parse")
	}
}

func TestMarkdown_CompleteRoadmapItem(t *testing.T) {
	doc := fixture(t)
	doc.Roadmap[0].State = status.RoadmapComplete

	out, err := newRenderer(t).Markdown(doc)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(out, "1. ✓ Fix remaining vulnerabilities _complete_") {
		t.Error("complete item should be checked")
	}
}

// --- Terminal ---

func TestTerminal_RendersText(t *testing.T) {
	out, err := newRenderer(t).Terminal(fixture(t), TerminalOptions{Width: 100, Style: "notty"})
	if err != nil {
		t.Fatalf("Terminal: %v", err)
	}
	for _, want := range []string{"Road to Mainnet", "Relaunch Horizon"} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}
}

// --- Helpers ---

func TestPhaseSentence(t *testing.T) {
	tests := []struct {
		name   string
		phases []status.Phase
		want   string
	}{
		{"empty", nil, ""},
		{
			"all complete",
			[]status.Phase{
				{Title: "A", Status: status.PhaseComplete},
				{Title: "B", Status: status.PhaseComplete},
				{Title: "C", Status: status.PhaseComplete},
			},
			"A, B, and C are complete.",
		},
		{
			"mixed",
			[]status.Phase{
				{Title: "A", Status: status.PhaseComplete},
				{Title: "B", Status: status.PhaseInProgress},
				{Title: "C", Status: status.PhaseUpcoming},
			},
			"A is complete. B is in progress. C is upcoming.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhaseSentence(tt.phases); got != tt.want {
				t.Errorf("PhaseSentence = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		pct, width int
		want       string
	}{
		{0, 4, "░░░░"},
		{50, 4, "██░░"},
		{100, 4, "████"},
		{62, 10, "██████░░░░"},
	}
	for _, tt := range tests {
		if got := bar(tt.pct, tt.width); got != tt.want {
			t.Errorf("bar(%d, %d) = %q, want %q", tt.pct, tt.width, got, tt.want)
		}
	}
}
