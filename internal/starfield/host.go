package starfield

// CanvasID identifies the starfield canvas on its host. Init refuses to run
// twice against a host that already carries it.
const CanvasID = "bg-starfield"

// Surface is a 2D drawing context in CSS pixels.
type Surface interface {
	// SetScale maps CSS pixels to device pixels.
	SetScale(dpr float64)
	Clear(w, h float64)
	DrawStar(x, y, radius, alpha float64)
	// DrawStatic paints the motionless backdrop used under reduced motion.
	DrawStatic(w, h float64)
}

// Canvas is the element the starfield paints on.
type Canvas interface {
	// Context2D returns nil when the host cannot draw.
	Context2D() Surface
	// SetPixelSize sets the backing store size in device pixels.
	SetPixelSize(w, h int)
	SetStatic(static bool)
	Remove()
}

// FrameID identifies a scheduled frame callback. Zero means none.
type FrameID uint64

// Host is the platform the starfield runs on: a browser-like environment
// with one cooperative event loop. All callbacks are invoked on that loop,
// never concurrently.
type Host interface {
	HasCanvas(id string) bool
	CreateCanvas(id string) Canvas

	// Viewport returns the size in CSS pixels and the device pixel ratio.
	Viewport() (w, h, dpr float64)
	ScrollY() float64
	// Now is a monotonic clock in milliseconds.
	Now() float64

	RequestFrame(fn func(ts float64)) FrameID
	CancelFrame(id FrameID)

	ReducedMotion() bool

	// The On* methods register listeners and return a function that
	// removes them.
	OnReducedMotionChange(fn func(reduced bool)) func()
	OnResize(fn func()) func()
	OnScroll(fn func()) func()
}
