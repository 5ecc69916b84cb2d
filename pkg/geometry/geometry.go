// Package geometry provides the coordinate-space math for the annotation
// overlay. All stored annotation geometry lives in unscaled page units;
// every screen-facing value is derived by multiplying by the current zoom
// scale at the single conversion points in this package.
package geometry

import "math"

// Point is a position in unscaled page units.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in unscaled page units.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// MinAnnotationSize is the smallest drag rectangle, in page units, that
// counts as an intentional annotation. Anything smaller is a click.
const MinAnnotationSize = 5.0

// ToPage converts a pointer position in client (screen) coordinates to
// unscaled page units, given the rendered page element's origin and the
// current zoom scale. This is the single screen-to-page conversion point.
func ToPage(clientX, clientY, pageLeft, pageTop, scale float64) Point {
	return Point{
		X: (clientX - pageLeft) / scale,
		Y: (clientY - pageTop) / scale,
	}
}

// Scaled returns the rect in screen pixels at the given zoom scale. The
// input rect is never mutated; geometry survives zoom changes untouched.
func (r Rect) Scaled(scale float64) Rect {
	return Rect{
		X:      r.X * scale,
		Y:      r.Y * scale,
		Width:  r.Width * scale,
		Height: r.Height * scale,
	}
}

// RightEdge returns the rect's right edge.
func (r Rect) RightEdge() float64 {
	return r.X + r.Width
}

// Intersects reports whether two rects overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// FromDrag returns the normalized bounding box of a drag gesture: width and
// height are always non-negative regardless of drag direction.
func FromDrag(start, current Point) Rect {
	return Rect{
		X:      math.Min(start.X, current.X),
		Y:      math.Min(start.Y, current.Y),
		Width:  math.Abs(current.X - start.X),
		Height: math.Abs(current.Y - start.Y),
	}
}

// BelowMinSize reports whether the rect fails the minimum drag threshold in
// either dimension and should be discarded as an accidental click.
func (r Rect) BelowMinSize() bool {
	return r.Width < MinAnnotationSize || r.Height < MinAnnotationSize
}
