// Package starfield simulates the decorative scrolling star background.
//
// The simulation (Field) is pure math over a slice of stars and can be
// stepped without any display. Init binds a Field to a Host, which supplies
// the canvas, frame scheduling and the reduced-motion preference.
package starfield

import (
	"math"
)

const (
	MaxDevicePixelRatio = 2.0
	StarDensity         = 0.00018 // stars per square pixel
	MaxStars            = 420
	BaseVelocity        = 0.035
	MinVelocity         = 0.015
	MaxVelocity         = 0.18
	ScrollVelocityScale = 0.00035
	VelocityEasing      = 0.085
	TwinkleSpeed        = 0.0018
	StarBaseSize        = 0.6
	StarSizeVariation   = 1.1
	StarDepthVariation  = 0.8
	StarMargin          = 24.0
	MaxFrameDelta       = 48.0 // ms
)

// Star is one particle. Depth is in [0.2, 1); deeper stars move faster and
// render brighter.
type Star struct {
	X, Y          float64
	Depth         float64
	Size          float64
	TwinkleOffset float64
}

// Field is the star simulation for one viewport.
type Field struct {
	width, height float64
	stars         []Star

	velocity       float64
	targetVelocity float64
	direction      float64

	random func() float64
}

// NewField creates an empty field. random must return values in [0, 1).
func NewField(random func() float64) *Field {
	return &Field{
		velocity:       BaseVelocity,
		targetVelocity: BaseVelocity,
		direction:      1,
		random:         random,
	}
}

// StarCount is the density-based population for a w×h viewport.
func StarCount(w, h float64) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	n := int(math.Ceil(w * h * StarDensity))
	return min(n, MaxStars)
}

// Resize regenerates the star set for a new viewport size.
func (f *Field) Resize(w, h float64) {
	f.width, f.height = w, h
	n := StarCount(w, h)
	f.stars = make([]Star, n)
	for i := range f.stars {
		f.stars[i] = Star{
			X:             f.random() * w,
			Y:             f.random() * h,
			Depth:         f.random()*StarDepthVariation + (1 - StarDepthVariation),
			Size:          StarBaseSize + f.random()*StarSizeVariation,
			TwinkleOffset: f.random() * math.Pi * 2,
		}
	}
}

// Scroll records a scroll movement of deltaY pixels. The direction of travel
// follows the sign of the delta and the target velocity grows with its size.
func (f *Field) Scroll(deltaY float64) {
	if deltaY >= 0 {
		f.direction = 1
	} else {
		f.direction = -1
	}
	boost := math.Min(math.Abs(deltaY)*ScrollVelocityScale, MaxVelocity-BaseVelocity)
	f.targetVelocity = clamp(BaseVelocity+boost, MinVelocity, MaxVelocity)
}

// Step advances the simulation by dt milliseconds. dt is clamped to
// MaxFrameDelta so a long pause does not make the field jump.
func (f *Field) Step(dt float64) {
	dt = clamp(dt, 0, MaxFrameDelta)
	f.velocity = lerp(f.velocity, f.targetVelocity, VelocityEasing)

	timeFactor := dt * 0.06 * f.direction
	for i := range f.stars {
		s := &f.stars[i]
		s.Y += f.velocity * (0.45 + s.Depth*1.1) * timeFactor

		switch {
		case f.direction >= 0 && s.Y-StarMargin > f.height:
			s.Y = -StarMargin
			s.X = f.random() * f.width
		case f.direction < 0 && s.Y+StarMargin < 0:
			s.Y = f.height + StarMargin
			s.X = f.random() * f.width
		}
	}
}

// Draw clears surface and paints every star at timestamp ts (ms).
func (f *Field) Draw(surface Surface, ts float64) {
	surface.Clear(f.width, f.height)
	for _, s := range f.stars {
		surface.DrawStar(s.X, s.Y, s.Size*Twinkle(ts, s.TwinkleOffset), Alpha(s.Depth))
	}
}

// Twinkle is the radius multiplier of a star at ts, in [0.5, 1].
func Twinkle(ts, offset float64) float64 {
	return 0.75 + math.Sin(ts*TwinkleSpeed+offset)*0.25
}

// Alpha is the opacity of a star at the given depth.
func Alpha(depth float64) float64 {
	return 0.35 + depth*0.55
}

func (f *Field) Stars() []Star           { return f.stars }
func (f *Field) Size() (w, h float64)    { return f.width, f.height }
func (f *Field) Velocity() float64       { return f.velocity }
func (f *Field) TargetVelocity() float64 { return f.targetVelocity }
func (f *Field) Direction() float64      { return f.direction }

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func lerp(start, end, factor float64) float64 {
	return start + (end-start)*factor
}
