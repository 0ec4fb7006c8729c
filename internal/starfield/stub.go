package starfield

import "sort"

// StubHost is a headless Host. Nothing happens on its own: frames run when
// Pump is called and events fire through the Set*/ScrollTo methods. It is
// not safe for concurrent use.
type StubHost struct {
	Width, Height, DPR float64
	// NoContext makes created canvases report no 2D context.
	NoContext bool

	now     float64
	scrollY float64
	reduced bool

	canvases map[string]*StubCanvas

	nextID FrameID
	frames map[FrameID]func(float64)

	nextListener int
	motion       map[int]func(bool)
	resize       map[int]func()
	scroll       map[int]func()
}

// NewStubHost returns a w×h viewport at DPR 1 with motion allowed.
func NewStubHost(w, h float64) *StubHost {
	return &StubHost{
		Width:    w,
		Height:   h,
		DPR:      1,
		canvases: make(map[string]*StubCanvas),
		frames:   make(map[FrameID]func(float64)),
		motion:   make(map[int]func(bool)),
		resize:   make(map[int]func()),
		scroll:   make(map[int]func()),
	}
}

func (h *StubHost) HasCanvas(id string) bool {
	_, ok := h.canvases[id]
	return ok
}

func (h *StubHost) CreateCanvas(id string) Canvas {
	c := &StubCanvas{host: h, id: id}
	if !h.NoContext {
		c.surface = &StubSurface{}
	}
	h.canvases[id] = c
	return c
}

// Canvas returns the mounted canvas with the given id, or nil.
func (h *StubHost) Canvas(id string) *StubCanvas { return h.canvases[id] }

func (h *StubHost) Viewport() (float64, float64, float64) { return h.Width, h.Height, h.DPR }
func (h *StubHost) ScrollY() float64                      { return h.scrollY }
func (h *StubHost) Now() float64                          { return h.now }
func (h *StubHost) ReducedMotion() bool                   { return h.reduced }

func (h *StubHost) RequestFrame(fn func(float64)) FrameID {
	h.nextID++
	h.frames[h.nextID] = fn
	return h.nextID
}

func (h *StubHost) CancelFrame(id FrameID) {
	delete(h.frames, id)
}

// PendingFrames is the number of scheduled, not yet run, frame callbacks.
func (h *StubHost) PendingFrames() int { return len(h.frames) }

// Pump advances the clock by dt milliseconds and runs the callbacks that
// were pending before the call, in scheduling order. Callbacks scheduled
// while pumping wait for the next Pump.
func (h *StubHost) Pump(dt float64) int {
	h.now += dt
	ids := make([]FrameID, 0, len(h.frames))
	for id := range h.frames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ran := 0
	for _, id := range ids {
		fn, ok := h.frames[id]
		if !ok {
			continue
		}
		delete(h.frames, id)
		fn(h.now)
		ran++
	}
	return ran
}

func (h *StubHost) OnReducedMotionChange(fn func(bool)) func() {
	id := h.listenerID()
	h.motion[id] = fn
	return func() { delete(h.motion, id) }
}

func (h *StubHost) OnResize(fn func()) func() {
	id := h.listenerID()
	h.resize[id] = fn
	return func() { delete(h.resize, id) }
}

func (h *StubHost) OnScroll(fn func()) func() {
	id := h.listenerID()
	h.scroll[id] = fn
	return func() { delete(h.scroll, id) }
}

// Listeners is the number of registered listeners of all kinds.
func (h *StubHost) Listeners() int {
	return len(h.motion) + len(h.resize) + len(h.scroll)
}

// SetReducedMotion flips the preference and notifies listeners on change.
func (h *StubHost) SetReducedMotion(reduced bool) {
	if h.reduced == reduced {
		return
	}
	h.reduced = reduced
	for _, fn := range h.motion {
		fn(reduced)
	}
}

// ResizeTo changes the viewport and notifies listeners.
func (h *StubHost) ResizeTo(w, ht float64) {
	h.Width, h.Height = w, ht
	for _, fn := range h.resize {
		fn()
	}
}

// ScrollTo moves the scroll offset and notifies listeners.
func (h *StubHost) ScrollTo(y float64) {
	h.scrollY = y
	for _, fn := range h.scroll {
		fn()
	}
}

func (h *StubHost) listenerID() int {
	h.nextListener++
	return h.nextListener
}

// StubCanvas records what was done to it.
type StubCanvas struct {
	host    *StubHost
	id      string
	surface *StubSurface

	PixelWidth, PixelHeight int
	Static                  bool
	Removed                 bool
}

func (c *StubCanvas) Context2D() Surface {
	if c.surface == nil {
		return nil
	}
	return c.surface
}

// Surface returns the recording surface, nil when the canvas has no context.
func (c *StubCanvas) Surface() *StubSurface { return c.surface }

func (c *StubCanvas) SetPixelSize(w, h int) {
	c.PixelWidth, c.PixelHeight = w, h
}

func (c *StubCanvas) SetStatic(static bool) { c.Static = static }

func (c *StubCanvas) Remove() {
	c.Removed = true
	delete(c.host.canvases, c.id)
}

// StubSurface counts draw calls.
type StubSurface struct {
	Scale       float64
	Clears      int
	StaticDraws int
	Stars       int
	// LastStars holds the stars of the most recent frame.
	LastStars []DrawnStar
}

// DrawnStar is one DrawStar call.
type DrawnStar struct {
	X, Y, Radius, Alpha float64
}

func (s *StubSurface) SetScale(dpr float64) { s.Scale = dpr }

func (s *StubSurface) Clear(w, h float64) {
	s.Clears++
	s.LastStars = s.LastStars[:0]
}

func (s *StubSurface) DrawStar(x, y, radius, alpha float64) {
	s.Stars++
	s.LastStars = append(s.LastStars, DrawnStar{X: x, Y: y, Radius: radius, Alpha: alpha})
}

func (s *StubSurface) DrawStatic(w, h float64) { s.StaticDraws++ }
