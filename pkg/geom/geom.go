// Package geom provides the pixel-space value types shared by the layout
// engine and its hosts.
//
// All coordinates are in user units (typically points or pixels). The origin
// is the top-left corner of the scrollable content; X grows right and Y grows
// down.
package geom

import "math"

// Point is a location in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixel space.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.W == 0 && s.H == 0 }

// Insets shrink a rectangle from each edge.
type Insets struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

// Uniform returns insets with the same value on every edge.
func Uniform(v float64) Insets {
	return Insets{Top: v, Left: v, Bottom: v, Right: v}
}

// Horizontal returns the combined left and right inset.
func (in Insets) Horizontal() float64 { return in.Left + in.Right }

// Vertical returns the combined top and bottom inset.
func (in Insets) Vertical() float64 { return in.Top + in.Bottom }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectFrom builds a rectangle from an origin and a size.
func RectFrom(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.X }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Y }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.W }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.H }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// IsEmpty reports whether the rectangle covers no area.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Inset shrinks r by in. Dimensions never go negative; an over-inset
// rectangle collapses to zero size at its inset origin.
func (r Rect) Inset(in Insets) Rect {
	out := Rect{
		X: r.X + in.Left,
		Y: r.Y + in.Top,
		W: r.W - in.Horizontal(),
		H: r.H - in.Vertical(),
	}
	out.W = math.Max(out.W, 0)
	out.H = math.Max(out.H, 0)
	return out
}

// Intersects reports whether r and o share a region of positive area.
// Rectangles that merely touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.MinX() < o.MaxX() && o.MinX() < r.MaxX() &&
		r.MinY() < o.MaxY() && o.MinY() < r.MaxY()
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() && p.Y >= r.MinY() && p.Y < r.MaxY()
}
