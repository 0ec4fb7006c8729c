// Package report renders the status document as a Markdown report, either
// as plain Markdown or styled for the terminal.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/HendryAvila/roadmap-status/internal/format"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/charmbracelet/glamour"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Renderer turns status documents into Markdown.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("report").Funcs(funcs).ParseFS(templateFS, "templates/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing report templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Markdown renders doc as Markdown.
func (r *Renderer) Markdown(doc *status.Document) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "report.md.tmpl", newData(doc)); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// TerminalOptions controls Terminal output.
type TerminalOptions struct {
	Width int
	// Style is a glamour standard style name ("dark", "light", "notty").
	// Empty selects one from the terminal.
	Style string
}

// Terminal renders doc as styled terminal text.
func (r *Renderer) Terminal(doc *status.Document, opts TerminalOptions) (string, error) {
	md, err := r.Markdown(doc)
	if err != nil {
		return "", err
	}

	width := opts.Width
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if opts.Style != "" {
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}

	tr, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// --- Template data ---

type data struct {
	LastUpdated     string
	Overall         int
	PhaseSentence   string
	Phases          []status.Phase
	Findings        []finding
	PublicTotal     int
	AfterFixesTotal int
	Notes           []string
	Roadmap         []status.RoadmapItem
	Links           status.Links
}

type finding struct {
	Label      string
	Public     int
	AfterFixes int
}

func newData(doc *status.Document) data {
	d := data{
		LastUpdated:     doc.Meta.LastUpdated,
		Overall:         format.Percent(doc.Meta.OverallTrajectoryPct),
		PhaseSentence:   PhaseSentence(doc.Phases),
		Phases:          doc.Phases,
		PublicTotal:     doc.Security.PublicFindings.Total(),
		AfterFixesTotal: doc.Security.AfterPriorityFixes.Total(),
		Notes:           doc.Security.Notes,
		Roadmap:         doc.Roadmap,
		Links:           doc.Links,
	}
	if t, err := status.ParseTimestamp(doc.Meta.LastUpdated); err == nil {
		d.LastUpdated = format.LastUpdated(t)
	}
	for _, sev := range status.Severities {
		d.Findings = append(d.Findings, finding{
			Label:      severityLabel(sev),
			Public:     doc.Security.PublicFindings.Get(sev),
			AfterFixes: doc.Security.AfterPriorityFixes.Get(sev),
		})
	}
	return d
}

// PhaseSentence summarizes phases grouped by status, e.g.
// "Horizon (Devnet) is in progress. Adiri (Testnet) and Mainnet are upcoming."
func PhaseSentence(phases []status.Phase) string {
	order := []status.PhaseStatus{status.PhaseComplete, status.PhaseInProgress, status.PhaseUpcoming}
	groups := make(map[status.PhaseStatus][]string)
	for _, p := range phases {
		groups[p.Status] = append(groups[p.Status], p.Title)
	}

	var sentences []string
	for _, st := range order {
		titles := groups[st]
		if len(titles) == 0 {
			continue
		}
		verb := "is"
		if len(titles) > 1 {
			verb = "are"
		}
		sentences = append(sentences, fmt.Sprintf("%s %s %s.", format.List(titles), verb, strings.ToLower(phaseLabel(st))))
	}
	return strings.Join(sentences, " ")
}

var funcs = template.FuncMap{
	"bar":        bar,
	"phaseLabel": phaseLabel,
	"stateLabel": stateLabel,
	"stateMark":  stateMark,
	"inc":        func(i int) int { return i + 1 },
}

// bar draws a progress bar of width cells for a 0..100 percentage.
func bar(pct, width int) string {
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func phaseLabel(s status.PhaseStatus) string {
	switch s {
	case status.PhaseInProgress:
		return "In progress"
	case status.PhaseUpcoming:
		return "Upcoming"
	case status.PhaseComplete:
		return "Complete"
	}
	return string(s)
}

func stateLabel(s status.RoadmapState) string {
	switch s {
	case status.RoadmapInProgress:
		return "in progress"
	case status.RoadmapUpNext:
		return "up next"
	case status.RoadmapPlanned:
		return "planned"
	case status.RoadmapComplete:
		return "complete"
	}
	return string(s)
}

func stateMark(s status.RoadmapState) string {
	switch s {
	case status.RoadmapComplete:
		return "✓"
	case status.RoadmapInProgress:
		return "▶"
	case status.RoadmapUpNext:
		return "›"
	}
	return "○"
}

func severityLabel(s status.Severity) string {
	name := string(s)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
