package tui

import (
	"strings"
	"testing"

	roadmap "github.com/HendryAvila/roadmap-status"
	"github.com/HendryAvila/roadmap-status/internal/gate"
	"github.com/HendryAvila/roadmap-status/internal/report"
	"github.com/HendryAvila/roadmap-status/internal/starfield"
	"github.com/HendryAvila/roadmap-status/internal/status"
	tea "github.com/charmbracelet/bubbletea"
)

func fixedRandom() float64 { return 0.5 }

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	renderer, err := report.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Loader == nil {
		opts.Loader = status.NewLoader(status.BytesSource{Label: "embedded", Data: roadmap.StatusJSON})
	}
	opts.Renderer = renderer
	opts.Style = "notty"
	if opts.Random == nil {
		opts.Random = fixedRandom
	}
	return New(opts)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// loaded sizes the window and delivers the document.
func loaded(t *testing.T, m Model, width, height int) Model {
	t.Helper()
	m = update(t, m, tea.WindowSizeMsg{Width: width, Height: height})
	return update(t, m, m.load()())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// --- Host ---

func TestHost_RunFramesInOrder(t *testing.T) {
	h := NewHost(10, 2, false)
	var order []int
	h.RequestFrame(func(float64) { order = append(order, 1) })
	id := h.RequestFrame(func(float64) { order = append(order, 2) })
	h.RequestFrame(func(float64) {
		order = append(order, 3)
		h.RequestFrame(func(float64) { order = append(order, 4) })
	})
	h.CancelFrame(id)

	if ran := h.RunFrames(); ran != 2 {
		t.Errorf("RunFrames ran %d, want 2", ran)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("order = %v, want [1 3]", order)
	}
	if !h.Pending() {
		t.Error("frame scheduled during RunFrames should stay pending")
	}
}

func TestHost_ListenersFireOnChangeOnly(t *testing.T) {
	h := NewHost(10, 2, false)
	var resizes, scrolls, motions int
	removeResize := h.OnResize(func() { resizes++ })
	h.OnScroll(func() { scrolls++ })
	h.OnReducedMotionChange(func(bool) { motions++ })

	h.Resize(10, 2)
	h.Resize(20, 2)
	h.ScrollTo(0)
	h.ScrollTo(32)
	h.SetReducedMotion(false)
	h.SetReducedMotion(true)

	if resizes != 1 || scrolls != 1 || motions != 1 {
		t.Errorf("resizes=%d scrolls=%d motions=%d, want 1 each", resizes, scrolls, motions)
	}

	removeResize()
	h.Resize(30, 2)
	if resizes != 1 {
		t.Error("removed listener should not fire")
	}
}

func TestHost_Viewport(t *testing.T) {
	h := NewHost(80, 4, false)
	w, height, dpr := h.Viewport()
	if w != 80*CellWidth || height != 4*CellHeight || dpr != 1 {
		t.Errorf("Viewport = %v, %v, %v", w, height, dpr)
	}
}

func TestHost_LinesWithoutCanvas(t *testing.T) {
	h := NewHost(5, 2, false)
	lines := h.Lines(DefaultStyles())
	if len(lines) != 2 || lines[0] != "     " {
		t.Errorf("Lines = %q", lines)
	}
}

// --- Surface ---

func TestSurface_DrawStar(t *testing.T) {
	s := &Surface{}
	s.resize(4, 2)

	s.DrawStar(CellWidth*1.5, CellHeight*0.5, 1.2, 0.4)
	s.DrawStar(CellWidth*1.2, CellHeight*0.2, 0.3, 0.8) // brighter, same cell
	s.DrawStar(CellWidth*1.7, CellHeight*0.7, 0.8, 0.5) // dimmer, same cell
	s.DrawStar(-1, 0, 1, 1)
	s.DrawStar(CellWidth*10, 0, 1, 1)

	g, a := s.Cell(1, 0)
	if g != '.' || a != 0.8 {
		t.Errorf("Cell(1,0) = %q %v, want '.' 0.8", g, a)
	}
	if s.Lit() != 1 {
		t.Errorf("Lit = %d, want 1", s.Lit())
	}

	s.Clear(0, 0)
	if s.Lit() != 0 {
		t.Error("Clear should empty the grid")
	}
}

func TestStarGlyph(t *testing.T) {
	tests := []struct {
		radius float64
		want   rune
	}{
		{0.3, '.'},
		{0.8, '·'},
		{1.5, '*'},
	}
	for _, tt := range tests {
		if got := starGlyph(tt.radius); got != tt.want {
			t.Errorf("starGlyph(%v) = %q, want %q", tt.radius, got, tt.want)
		}
	}
}

// --- Starfield lifecycle ---

func TestNew_AnimatedSchedulesFrames(t *testing.T) {
	m := newModel(t, Options{})
	if m.Starfield() == nil {
		t.Fatal("starfield not mounted")
	}
	if m.Starfield().State() != starfield.StateAnimated {
		t.Errorf("State = %s", m.Starfield().State())
	}
	if !m.Host().Pending() {
		t.Fatal("animated starfield should request a frame")
	}

	m = update(t, m, frameMsg{})
	if !m.Host().Pending() || !m.tickRunning {
		t.Error("frame loop should keep ticking")
	}
	if m.Host().Canvas(starfield.CanvasID).Surface().Lit() == 0 {
		t.Error("a rendered frame should light some cells")
	}
}

func TestNew_ReducedMotionIsStatic(t *testing.T) {
	m := newModel(t, Options{ReducedMotion: true})
	if m.Starfield().State() != starfield.StateStatic {
		t.Errorf("State = %s", m.Starfield().State())
	}
	if m.Host().Pending() {
		t.Error("reduced motion should not request frames")
	}
	if m.Host().Canvas(starfield.CanvasID).Surface().Lit() == 0 {
		t.Error("static backdrop should be painted")
	}
	if !m.Host().Canvas(starfield.CanvasID).Static {
		t.Error("canvas should be marked static")
	}
}

func TestUpdate_MotionToggle(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, keyRunes("m"))
	if m.Starfield().State() != starfield.StateStatic || m.Host().Pending() {
		t.Error("m should stop the frame loop")
	}
	if m.Notice() != "motion reduced" {
		t.Errorf("Notice = %q", m.Notice())
	}

	m = update(t, m, keyRunes("m"))
	if m.Starfield().State() != starfield.StateAnimated || !m.Host().Pending() {
		t.Error("second m should restart the frame loop")
	}
}

func TestClose_RemovesCanvas(t *testing.T) {
	m := newModel(t, Options{})
	m.Close()
	if m.Host().HasCanvas(starfield.CanvasID) || m.Host().Pending() {
		t.Error("Close should cancel the frame and remove the canvas")
	}
	m.Close()
}

// --- Report ---

func TestUpdate_DocumentRendered(t *testing.T) {
	m := loaded(t, newModel(t, Options{}), 80, 40)
	if m.Document() == nil {
		t.Fatalf("document not loaded: %v", m.Err())
	}
	view := m.View()
	if !strings.Contains(view, "Road to Mainnet") {
		t.Errorf("view should show the report:\n%s", view)
	}
	if !strings.Contains(view, "stars animated") {
		t.Errorf("status line missing:\n%s", view)
	}
}

func TestUpdate_LoadError(t *testing.T) {
	bad := status.NewLoader(status.BytesSource{Label: "bad", Data: []byte(`{"phases": []}`)})
	m := loaded(t, newModel(t, Options{Loader: bad}), 80, 24)
	if m.Err() == nil {
		t.Fatal("expected load error")
	}
	if !strings.Contains(m.View(), "Error: ") {
		t.Errorf("view should show the error:\n%s", m.View())
	}
}

func TestUpdate_ScrollDrivesStarfield(t *testing.T) {
	m := loaded(t, newModel(t, Options{}), 80, 12)

	m = update(t, m, keyRunes("j"))
	if got := m.Host().ScrollY(); got != CellHeight {
		t.Fatalf("ScrollY = %v, want %v", got, CellHeight)
	}
	field := m.Starfield().Field()
	if field.Direction() != 1 || field.TargetVelocity() <= starfield.BaseVelocity {
		t.Errorf("scrolling down should speed up: direction %v target %v", field.Direction(), field.TargetVelocity())
	}

	m = update(t, m, keyRunes("k"))
	if m.Host().ScrollY() != 0 || field.Direction() != -1 {
		t.Errorf("scrolling up should reverse: y %v direction %v", m.Host().ScrollY(), field.Direction())
	}
}

func TestUpdate_ResizeChangesBand(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	w, h, _ := m.Host().Viewport()
	if w != 120*CellWidth || h != maxBandRows*CellHeight {
		t.Errorf("Viewport = %v×%v", w, h)
	}
	if want := starfield.StarCount(w, h); len(m.Starfield().Field().Stars()) != want {
		t.Errorf("stars = %d, want %d", len(m.Starfield().Field().Stars()), want)
	}
}

func TestUpdate_Quit(t *testing.T) {
	m := newModel(t, Options{})
	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
}

// --- Gate ---

func newGate(t *testing.T, attempts int) *gate.Gate {
	t.Helper()
	g, err := gate.New(gate.Hash("stardust"), attempts)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGate_Unlock(t *testing.T) {
	m := loaded(t, newModel(t, Options{Gate: newGate(t, 3)}), 80, 24)
	if !m.Gated() {
		t.Fatal("viewer should start gated")
	}
	if strings.Contains(m.View(), "Road to Mainnet") {
		t.Error("report must stay hidden behind the prompt")
	}

	m = update(t, m, keyRunes("stardust"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Gated() {
		t.Fatalf("correct password should unlock, notice %q", m.Notice())
	}
	if !strings.Contains(m.View(), "Road to Mainnet") {
		t.Error("report should show after unlocking")
	}
}

func TestGate_WrongPasswordAndLockout(t *testing.T) {
	m := loaded(t, newModel(t, Options{Gate: newGate(t, 2)}), 80, 24)

	m = update(t, m, keyRunes("nope"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Notice() != "incorrect password (1 left)" {
		t.Errorf("Notice = %q", m.Notice())
	}

	m = update(t, m, keyRunes("nope"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.HasPrefix(m.Notice(), "too many attempts") {
		t.Errorf("Notice = %q", m.Notice())
	}

	m = update(t, m, keyRunes("stardust"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Gated() {
		t.Error("a locked gate must not open")
	}
}

func TestGate_QuitKeysTypeIntoPrompt(t *testing.T) {
	m := newModel(t, Options{Gate: newGate(t, 3)})
	m = update(t, m, keyRunes("q"))
	if m.input.Value() != "q" {
		t.Errorf("q should be typed into the prompt, got %q", m.input.Value())
	}
}
