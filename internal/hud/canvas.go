// Package hud draws the heads-up display: a roll-rotated pitch ladder with
// its horizon line, a heading tape and the flight path marker.
package hud

import (
	"image/color"
	"math"
)

// Canvas is the set of drawing primitives the renderer needs. Coordinates
// are pixels, y grows downward.
type Canvas interface {
	// Line strokes a segment of the given thickness.
	Line(x0, y0, x1, y1, thickness float64, clr color.Color)
	// CircleOutline strokes a one pixel circle.
	CircleOutline(cx, cy, radius float64, clr color.Color)
	// Text draws s with its top-left corner at (x, y). size is the glyph
	// height in pixels.
	Text(s string, x, y, size float64, clr color.Color)
	// Transformed runs draw with t applied to every primitive it issues.
	// Blocks do not nest; an inner block replaces the outer transform.
	Transformed(t Transform, draw func(Canvas))
}

// Transform maps local coordinates to the screen: rotate by Rotation
// degrees (clockwise on screen), scale by Zoom, then move the origin to
// (OffsetX, OffsetY).
type Transform struct {
	OffsetX  float64
	OffsetY  float64
	Rotation float64
	Zoom     float64
}

// Identity leaves coordinates unchanged.
var Identity = Transform{Zoom: 1}

// Apply maps the local point (x, y) to screen space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	sin, cos := math.Sincos(t.Rotation * math.Pi / 180)
	rx := x*cos - y*sin
	ry := x*sin + y*cos
	return t.OffsetX + rx*t.Zoom, t.OffsetY + ry*t.Zoom
}
