// Package tui is the terminal viewer for the status document: a starfield
// band above the rendered report, optionally behind a password prompt.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HendryAvila/roadmap-status/internal/gate"
	"github.com/HendryAvila/roadmap-status/internal/report"
	"github.com/HendryAvila/roadmap-status/internal/starfield"
	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultFPS    = 30
	defaultWidth  = 80
	defaultHeight = 24

	minBandRows = 3
	maxBandRows = 8
)

// Options configures a Model.
type Options struct {
	Loader   *status.Loader
	Renderer *report.Renderer
	// Gate, when set and not yet unlocked, puts a password prompt in front
	// of the report.
	Gate *gate.Gate

	ReducedMotion bool
	FPS           int
	// Style is passed to the report renderer. Empty picks one from the
	// terminal.
	Style string
	// Random seeds star placement, mainly for tests.
	Random func() float64
}

// ReloadMsg asks the viewer to re-read the document.
type ReloadMsg struct{}

// frameMsg drives the starfield frame loop.
type frameMsg struct{}

// documentMsg carries the result of a document load.
type documentMsg struct {
	doc *status.Document
	err error
}

// Model is the Bubble Tea model of the viewer.
type Model struct {
	opts   Options
	keys   KeyMap
	styles Styles
	help   help.Model

	host  *Host
	stars *starfield.Starfield

	viewport viewport.Model
	input    textinput.Model

	width, height int

	doc    *status.Document
	err    error
	notice string

	tickRunning bool
}

// New builds the viewer and mounts its starfield.
func New(opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}

	input := textinput.New()
	input.Prompt = "Password: "
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.Focus()

	m := Model{
		opts:     opts,
		keys:     DefaultKeyMap,
		styles:   DefaultStyles(),
		help:     help.New(),
		width:    defaultWidth,
		height:   defaultHeight,
		viewport: viewport.New(defaultWidth, 0),
		input:    input,
	}
	m.host = NewHost(defaultWidth, m.bandRows(), opts.ReducedMotion)
	m.stars = starfield.Mount(m.host, starfield.Options{Random: opts.Random})
	m.layout()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load()}
	if m.gated() {
		cmds = append(cmds, textinput.Blink)
	}
	if cmd := m.ensureTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Close tears the starfield down.
func (m Model) Close() {
	if m.stars != nil {
		m.stars.Close()
	}
}

// Host exposes the starfield host.
func (m Model) Host() *Host { return m.host }

// Starfield exposes the mounted starfield, nil if mounting failed.
func (m Model) Starfield() *starfield.Starfield { return m.stars }

// Document is the last successfully loaded document.
func (m Model) Document() *status.Document { return m.doc }

// Err is the last load or render error.
func (m Model) Err() error { return m.err }

// Notice is the status line message.
func (m Model) Notice() string { return m.notice }

// Gated reports whether the password prompt is showing.
func (m Model) Gated() bool { return m.gated() }

func (m Model) gated() bool {
	return m.opts.Gate != nil && !m.opts.Gate.Unlocked()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.render()

	case frameMsg:
		m.tickRunning = false
		m.host.RunFrames()

	case documentMsg:
		if msg.err != nil {
			m.err = msg.err
			m.notice = "load failed"
		} else {
			m.doc, m.err = msg.doc, nil
			m.render()
		}

	case ReloadMsg:
		m.opts.Loader.Reset()
		m.notice = "reloaded"
		cmds = append(cmds, m.load())

	case tea.KeyMsg:
		if m.gated() {
			cmds = append(cmds, m.updateGate(msg))
			break
		}
		cmds = append(cmds, m.updateKeys(msg))

	case tea.MouseMsg:
		if !m.gated() {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		if m.gated() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.syncScroll()
	cmds = append(cmds, m.ensureTick())
	return m, tea.Batch(cmds...)
}

func (m *Model) updateKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Motion):
		m.host.SetReducedMotion(!m.host.ReducedMotion())
		if m.host.ReducedMotion() {
			m.notice = "motion reduced"
		} else {
			m.notice = "motion on"
		}
	case key.Matches(msg, m.keys.Reload):
		return func() tea.Msg { return ReloadMsg{} }
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
	}
	return nil
}

func (m *Model) updateGate(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		return tea.Quit
	}
	if m.opts.Gate.Locked() {
		return nil
	}
	if !key.Matches(msg, m.keys.Submit) {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	err := m.opts.Gate.Check(m.input.Value())
	m.input.Reset()
	switch {
	case err == nil:
		m.notice = ""
		m.input.Blur()
		m.layout()
		m.render()
	case errors.Is(err, gate.ErrLocked):
		m.notice = "too many attempts, press esc to quit"
	default:
		m.notice = fmt.Sprintf("incorrect password (%d left)", m.opts.Gate.Remaining())
	}
	return nil
}

// load reads the document off the update loop.
func (m Model) load() tea.Cmd {
	loader := m.opts.Loader
	return func() tea.Msg {
		doc, err := loader.Load(context.Background())
		return documentMsg{doc: doc, err: err}
	}
}

func (m *Model) render() {
	if m.doc == nil || m.gated() {
		return
	}
	out, err := m.opts.Renderer.Terminal(m.doc, report.TerminalOptions{
		Width: m.viewport.Width,
		Style: m.opts.Style,
	})
	if err != nil {
		m.err = err
		return
	}
	offset := m.viewport.YOffset
	m.viewport.SetContent(out)
	m.viewport.SetYOffset(offset)
}

// bandRows is the height of the starfield band for the current window.
func (m Model) bandRows() int {
	return min(max(m.height/4, minBandRows), maxBandRows)
}

func (m *Model) layout() {
	rows := m.bandRows()
	m.host.Resize(m.width, rows)
	m.help.Width = m.width
	m.input.Width = max(m.width-len(m.input.Prompt)-1, 1)

	// Band, status line and help line.
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-rows-2, 1)
}

// syncScroll feeds the report scroll position to the starfield.
func (m *Model) syncScroll() {
	m.host.ScrollTo(float64(m.viewport.YOffset) * CellHeight)
}

// ensureTick schedules the next frame when the starfield asked for one and
// no tick is in flight.
func (m *Model) ensureTick() tea.Cmd {
	if m.tickRunning || !m.host.Pending() {
		return nil
	}
	m.tickRunning = true
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

var (
	promptStyle = lipgloss.NewStyle().Padding(1, 2)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(strings.Join(m.host.Lines(m.styles), "\n"))
	b.WriteByte('\n')

	if m.gated() {
		b.WriteString(promptStyle.Render(m.input.View()))
		b.WriteByte('\n')
		if m.notice != "" {
			b.WriteString(errorStyle.Render(m.notice))
		}
		return b.String()
	}

	switch {
	case m.doc == nil && m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.doc == nil:
		b.WriteString(statusStyle.Render("Loading…"))
	default:
		b.WriteString(m.viewport.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	state := "static"
	if m.stars != nil {
		state = string(m.stars.State())
	}
	line := fmt.Sprintf("%3.f%% · stars %s", m.viewport.ScrollPercent()*100, state)
	if m.notice != "" {
		line += " · " + m.notice
	}
	if m.doc != nil && m.err != nil {
		return errorStyle.Render(line + " · " + m.err.Error())
	}
	return statusStyle.Render(line)
}
