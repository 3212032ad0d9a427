package chart

import "time"

// Size is the drawable extent of a surface.
type Size struct {
	Width, Height float64
}

// Frame places the plot inside a surface: its top-left corner and extent.
// Drawing coordinates are relative to the corner; clipped primitives are cut
// to the frame's rectangle.
type Frame struct {
	Left, Top     float64
	Width, Height float64
}

// Stroke describes how a line or path outline is painted.
type Stroke struct {
	Color string
	Width float64
	// Dash is a dash/gap pattern; empty means solid.
	Dash []float64
}

// Path is a polyline through Points, interpolated by Curve.
type Path struct {
	Class  string
	Points []Point
	Curve  Curve
	Stroke Stroke
	Clip   bool
}

// Marker is a filled circle.
type Marker struct {
	Class  string
	Center Point
	Radius float64
	Fill   string
	Clip   bool
}

// Line is a straight segment.
type Line struct {
	From, To Point
	Stroke   Stroke
	Clip     bool
}

// Axis is a horizontal time axis drawn at Offset below the frame top.
// Ticks fall on every multiple of Every inside the scale domain.
type Axis struct {
	Class  string
	Scale  TimeScale
	Every  time.Duration
	Format func(time.Duration) string
	Offset float64
}

// Text is a single label.
type Text struct {
	Class    string
	At       Point
	Value    string
	Anchor   string // "start", "middle" or "end"
	FontSize float64
}

// Surface is an addressable drawable region. Implementations need not be
// safe for concurrent rendering into the same surface.
type Surface interface {
	// ID is the stable identifier of the region.
	ID() string
	// Measure reports the available size; ok is false when the region is
	// unmounted or has no area.
	Measure() (size Size, ok bool)
	// Clear removes everything drawn so far, including the frame.
	Clear()
	SetFrame(f Frame)
	DrawPath(p Path)
	DrawPoint(m Marker)
	DrawLine(l Line)
	DrawAxis(a Axis)
	DrawText(t Text)
}
