package starfield

import (
	"math"
	"math/rand/v2"
)

// State is the animation state of a running starfield.
type State string

const (
	StateStatic   State = "static"
	StateAnimated State = "animated"
)

// Options tunes Init. The zero value is usable.
type Options struct {
	// Random overrides the random source, mainly for tests.
	Random func() float64
}

// Starfield is a starfield bound to a host. It is driven entirely by host
// callbacks and must only be touched from the host's event loop.
type Starfield struct {
	host   Host
	canvas Canvas
	ctx    Surface
	field  *Field

	dpr           float64
	animating     bool
	frame         FrameID
	lastTimestamp float64
	lastScrollY   float64

	removeListeners []func()
	closed          bool
}

// Init mounts a starfield on host and returns its teardown function.
//
// Init is a no-op when host already carries a starfield canvas, and when the
// canvas has no 2D context; in the latter case the canvas is removed again.
// In both cases the returned teardown does nothing.
func Init(host Host, opts Options) func() {
	sf := Mount(host, opts)
	if sf == nil {
		return func() {}
	}
	return sf.Close
}

// Mount is Init returning the Starfield itself, or nil when nothing was
// mounted.
func Mount(host Host, opts Options) *Starfield {
	if host == nil || host.HasCanvas(CanvasID) {
		return nil
	}

	canvas := host.CreateCanvas(CanvasID)
	ctx := canvas.Context2D()
	if ctx == nil {
		canvas.Remove()
		return nil
	}

	random := opts.Random
	if random == nil {
		random = rand.Float64
	}

	sf := &Starfield{
		host:        host,
		canvas:      canvas,
		ctx:         ctx,
		field:       NewField(random),
		animating:   !host.ReducedMotion(),
		lastScrollY: host.ScrollY(),
	}

	sf.layout()
	sf.canvas.SetStatic(!sf.animating)
	if sf.animating {
		sf.start()
	} else {
		sf.drawStatic()
	}

	sf.removeListeners = []func(){
		host.OnResize(sf.resize),
		host.OnScroll(sf.scroll),
		host.OnReducedMotionChange(sf.motionChanged),
	}

	sf.scroll()
	return sf
}

// State reports whether the frame loop is running.
func (sf *Starfield) State() State {
	if sf.animating {
		return StateAnimated
	}
	return StateStatic
}

// Field exposes the simulation.
func (sf *Starfield) Field() *Field { return sf.field }

// Close cancels the pending frame, removes every listener and the canvas.
// It is safe to call more than once.
func (sf *Starfield) Close() {
	if sf.closed {
		return
	}
	sf.closed = true
	sf.cancel()
	for _, remove := range sf.removeListeners {
		remove()
	}
	sf.removeListeners = nil
	sf.canvas.Remove()
}

func (sf *Starfield) layout() {
	w, h, dpr := sf.host.Viewport()
	if dpr <= 0 {
		dpr = 1
	}
	sf.dpr = clamp(dpr, 1, MaxDevicePixelRatio)
	sf.canvas.SetPixelSize(int(math.Floor(w*sf.dpr)), int(math.Floor(h*sf.dpr)))
	sf.ctx.SetScale(sf.dpr)
	sf.field.Resize(w, h)
}

func (sf *Starfield) resize() {
	sf.layout()
	if !sf.animating {
		sf.drawStatic()
	}
}

func (sf *Starfield) scroll() {
	y := sf.host.ScrollY()
	sf.field.Scroll(y - sf.lastScrollY)
	sf.lastScrollY = y
}

func (sf *Starfield) motionChanged(reduced bool) {
	if reduced == !sf.animating {
		return
	}
	sf.animating = !reduced
	sf.canvas.SetStatic(reduced)
	if sf.animating {
		sf.start()
		return
	}
	sf.cancel()
	sf.drawStatic()
}

func (sf *Starfield) start() {
	sf.lastTimestamp = sf.host.Now()
	sf.frame = sf.host.RequestFrame(sf.render)
}

func (sf *Starfield) cancel() {
	if sf.frame != 0 {
		sf.host.CancelFrame(sf.frame)
		sf.frame = 0
	}
}

func (sf *Starfield) render(ts float64) {
	sf.frame = 0
	if !sf.animating || sf.closed {
		return
	}
	dt := ts - sf.lastTimestamp
	sf.lastTimestamp = ts

	sf.field.Step(dt)
	sf.field.Draw(sf.ctx, ts)

	sf.frame = sf.host.RequestFrame(sf.render)
}

func (sf *Starfield) drawStatic() {
	w, h := sf.field.Size()
	sf.ctx.DrawStatic(w, h)
}
