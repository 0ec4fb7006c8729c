package tui

import (
	"sort"
	"strings"
	"time"

	"github.com/HendryAvila/roadmap-status/internal/starfield"
	"github.com/charmbracelet/lipgloss"
)

// One terminal cell stands for a CellWidth×CellHeight block of CSS pixels,
// so a typical band gets a star density close to a browser viewport.
const (
	CellWidth  = 16.0
	CellHeight = 32.0
)

// Host runs a starfield on a grid of terminal cells. It is driven from the
// Bubble Tea update loop: frame callbacks only run when RunFrames is called
// and listener events fire from Resize, ScrollTo and SetReducedMotion.
type Host struct {
	cols, rows int
	scrollY    float64
	reduced    bool

	clock func() time.Time
	start time.Time

	canvases map[string]*Canvas

	nextFrame starfield.FrameID
	frames    map[starfield.FrameID]func(float64)

	nextListener int
	motion       map[int]func(bool)
	resize       map[int]func()
	scroll       map[int]func()
}

// NewHost returns a host for a cols×rows band.
func NewHost(cols, rows int, reduced bool) *Host {
	h := &Host{
		cols:     max(cols, 0),
		rows:     max(rows, 0),
		reduced:  reduced,
		clock:    time.Now,
		canvases: make(map[string]*Canvas),
		frames:   make(map[starfield.FrameID]func(float64)),
		motion:   make(map[int]func(bool)),
		resize:   make(map[int]func()),
		scroll:   make(map[int]func()),
	}
	h.start = h.clock()
	return h
}

func (h *Host) HasCanvas(id string) bool {
	_, ok := h.canvases[id]
	return ok
}

func (h *Host) CreateCanvas(id string) starfield.Canvas {
	c := &Canvas{host: h, id: id, surface: &Surface{}}
	h.canvases[id] = c
	return c
}

// Canvas returns the mounted canvas with the given id, or nil.
func (h *Host) Canvas(id string) *Canvas { return h.canvases[id] }

func (h *Host) Viewport() (w, height, dpr float64) {
	return float64(h.cols) * CellWidth, float64(h.rows) * CellHeight, 1
}

func (h *Host) ScrollY() float64 { return h.scrollY }

func (h *Host) Now() float64 {
	return float64(h.clock().Sub(h.start)) / float64(time.Millisecond)
}

func (h *Host) RequestFrame(fn func(float64)) starfield.FrameID {
	h.nextFrame++
	h.frames[h.nextFrame] = fn
	return h.nextFrame
}

func (h *Host) CancelFrame(id starfield.FrameID) {
	delete(h.frames, id)
}

func (h *Host) ReducedMotion() bool { return h.reduced }

func (h *Host) OnReducedMotionChange(fn func(bool)) func() {
	id := h.listenerID()
	h.motion[id] = fn
	return func() { delete(h.motion, id) }
}

func (h *Host) OnResize(fn func()) func() {
	id := h.listenerID()
	h.resize[id] = fn
	return func() { delete(h.resize, id) }
}

func (h *Host) OnScroll(fn func()) func() {
	id := h.listenerID()
	h.scroll[id] = fn
	return func() { delete(h.scroll, id) }
}

func (h *Host) listenerID() int {
	h.nextListener++
	return h.nextListener
}

// --- Driving ---

// Pending reports whether a frame callback is waiting to run.
func (h *Host) Pending() bool { return len(h.frames) > 0 }

// RunFrames runs the callbacks that were pending before the call, in
// scheduling order. Callbacks they schedule wait for the next call.
func (h *Host) RunFrames() int {
	ids := make([]starfield.FrameID, 0, len(h.frames))
	for id := range h.frames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ts := h.Now()
	ran := 0
	for _, id := range ids {
		fn, ok := h.frames[id]
		if !ok {
			continue
		}
		delete(h.frames, id)
		fn(ts)
		ran++
	}
	return ran
}

// Resize changes the band size and notifies listeners when it differs.
func (h *Host) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	if cols == h.cols && rows == h.rows {
		return
	}
	h.cols, h.rows = cols, rows
	for _, fn := range h.resize {
		fn()
	}
}

// ScrollTo moves the scroll position and notifies listeners when it differs.
func (h *Host) ScrollTo(y float64) {
	if y == h.scrollY {
		return
	}
	h.scrollY = y
	for _, fn := range h.scroll {
		fn()
	}
}

// SetReducedMotion flips the preference and notifies listeners on change.
func (h *Host) SetReducedMotion(reduced bool) {
	if reduced == h.reduced {
		return
	}
	h.reduced = reduced
	for _, fn := range h.motion {
		fn(reduced)
	}
}

// Lines renders the starfield canvas as styled text, one string per row.
// Rows are blank when no canvas is mounted.
func (h *Host) Lines(styles Styles) []string {
	c := h.canvases[starfield.CanvasID]
	lines := make([]string, h.rows)
	if c == nil {
		blank := strings.Repeat(" ", h.cols)
		for i := range lines {
			lines[i] = blank
		}
		return lines
	}
	for row := range lines {
		lines[row] = c.surface.line(row, h.cols, styles)
	}
	return lines
}

// Canvas is a starfield canvas backed by a cell grid.
type Canvas struct {
	host    *Host
	id      string
	surface *Surface

	PixelWidth, PixelHeight int
	Static                  bool
}

func (c *Canvas) Context2D() starfield.Surface { return c.surface }

func (c *Canvas) SetPixelSize(w, h int) {
	c.PixelWidth, c.PixelHeight = w, h
	c.surface.resize(int(float64(w)/CellWidth), int(float64(h)/CellHeight))
}

func (c *Canvas) SetStatic(static bool) { c.Static = static }

func (c *Canvas) Remove() { delete(c.host.canvases, c.id) }

// Surface returns the cell grid the starfield paints on.
func (c *Canvas) Surface() *Surface { return c.surface }

// Surface rasterizes stars into terminal cells. When two stars land on the
// same cell the more opaque one wins.
type Surface struct {
	cols, rows int
	scale      float64
	alpha      []float64
	glyph      []rune
}

func (s *Surface) resize(cols, rows int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	s.alpha = make([]float64, s.cols*s.rows)
	s.glyph = make([]rune, s.cols*s.rows)
}

func (s *Surface) SetScale(dpr float64) { s.scale = dpr }

func (s *Surface) Clear(w, h float64) {
	clear(s.alpha)
	clear(s.glyph)
}

func (s *Surface) DrawStar(x, y, radius, alpha float64) {
	if x < 0 || y < 0 {
		return
	}
	col, row := int(x/CellWidth), int(y/CellHeight)
	if col >= s.cols || row >= s.rows {
		return
	}
	i := row*s.cols + col
	if alpha <= s.alpha[i] {
		return
	}
	s.alpha[i] = alpha
	s.glyph[i] = starGlyph(radius)
}

// DrawStatic paints a fixed sparse pattern of dim points.
func (s *Surface) DrawStatic(w, h float64) {
	s.Clear(w, h)
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			if (col*31+row*17)%23 == 0 {
				i := row*s.cols + col
				s.alpha[i] = 0.3
				s.glyph[i] = '.'
			}
		}
	}
}

// Lit is the number of cells holding a star.
func (s *Surface) Lit() int {
	n := 0
	for _, g := range s.glyph {
		if g != 0 {
			n++
		}
	}
	return n
}

// Cell returns the glyph and opacity at col, row. The glyph is zero for an
// empty cell.
func (s *Surface) Cell(col, row int) (rune, float64) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return 0, 0
	}
	i := row*s.cols + col
	return s.glyph[i], s.alpha[i]
}

func (s *Surface) line(row, width int, styles Styles) string {
	var b strings.Builder
	for col := 0; col < width; col++ {
		g, a := s.Cell(col, row)
		if g == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(styles.star(a).Render(string(g)))
	}
	return b.String()
}

func starGlyph(radius float64) rune {
	switch {
	case radius < 0.6:
		return '.'
	case radius < 1.0:
		return '·'
	default:
		return '*'
	}
}

// Styles colors the starfield by star opacity.
type Styles struct {
	Dim, Mid, Bright lipgloss.Style
}

// DefaultStyles uses adaptive greys so stars read on light and dark
// terminals.
func DefaultStyles() Styles {
	return Styles{
		Dim:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "250", Dark: "240"}),
		Mid:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "248"}),
		Bright: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "238", Dark: "255"}).Bold(true),
	}
}

func (s Styles) star(alpha float64) lipgloss.Style {
	switch {
	case alpha < 0.5:
		return s.Dim
	case alpha < 0.7:
		return s.Mid
	default:
		return s.Bright
	}
}
