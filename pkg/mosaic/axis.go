package mosaic

import (
	"strings"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
)

// Axis selects the scroll direction. The primary axis is the one that grows
// with scroll; the bound axis is perpendicular to it and has fixed capacity.
type Axis int

const (
	// Vertical scrolls along Y. Columns are bounded by the viewport width.
	Vertical Axis = iota
	// Horizontal scrolls along X. Rows are bounded by the viewport height.
	Horizontal
)

// String returns the canonical axis name.
func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseAxis parses an axis name ("vertical", "horizontal", or "v"/"h").
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "v", "":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	}
	return Vertical, errors.New(errors.ErrCodeInvalidAxis, "unknown axis %q (want vertical or horizontal)", s)
}

// gridPos is a cell coordinate in axis-agnostic terms.
type gridPos struct {
	bound, primary int
}

// extent is an item footprint in axis-agnostic terms.
type extent struct {
	bound, primary int
}

func (a Axis) extentOf(s Span) extent {
	if a == Horizontal {
		return extent{bound: s.H, primary: s.W}
	}
	return extent{bound: s.W, primary: s.H}
}

func (a Axis) cellOf(p gridPos) Cell {
	if a == Horizontal {
		return Cell{X: p.primary, Y: p.bound}
	}
	return Cell{X: p.bound, Y: p.primary}
}

func (a Axis) posOf(c Cell) gridPos {
	if a == Horizontal {
		return gridPos{bound: c.Y, primary: c.X}
	}
	return gridPos{bound: c.X, primary: c.Y}
}

// boundLen returns the component of s along the bound axis.
func (a Axis) boundLen(s geom.Size) float64 {
	if a == Horizontal {
		return s.H
	}
	return s.W
}

// primaryLen returns the component of s along the primary axis.
func (a Axis) primaryLen(s geom.Size) float64 {
	if a == Horizontal {
		return s.W
	}
	return s.H
}

// boundInsets returns the total inset consumed along the bound axis.
func (a Axis) boundInsets(in geom.Insets) float64 {
	if a == Horizontal {
		return in.Vertical()
	}
	return in.Horizontal()
}

// primaryRange returns the [lo, hi) extent of r along the primary axis.
func (a Axis) primaryRange(r geom.Rect) (lo, hi float64) {
	if a == Horizontal {
		return r.MinX(), r.MaxX()
	}
	return r.MinY(), r.MaxY()
}

// primaryOf returns the component of p along the primary axis.
func (a Axis) primaryOf(p geom.Point) float64 {
	if a == Horizontal {
		return p.X
	}
	return p.Y
}

// rect assembles a screen rectangle from axis-relative origin and lengths.
func (a Axis) rect(boundOrigin, primaryOrigin, boundLen, primaryLen float64) geom.Rect {
	if a == Horizontal {
		return geom.Rect{X: primaryOrigin, Y: boundOrigin, W: primaryLen, H: boundLen}
	}
	return geom.Rect{X: boundOrigin, Y: primaryOrigin, W: boundLen, H: primaryLen}
}

// size assembles a screen size from axis-relative lengths.
func (a Axis) size(boundLen, primaryLen float64) geom.Size {
	if a == Horizontal {
		return geom.Size{W: primaryLen, H: boundLen}
	}
	return geom.Size{W: boundLen, H: primaryLen}
}
