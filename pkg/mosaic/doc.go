// Package mosaic computes on-demand pixel geometry for a virtualized,
// scrollable grid whose items have heterogeneous sizes expressed in integral
// grid units.
//
// # Overview
//
// Items arrive in sequential order (group, then ordinal) from an ItemSource.
// Each item's footprint comes from a SizeProvider in grid units. The engine
// packs items greedily into a two-dimensional occupancy grid: one axis (the
// bound axis) is limited by how many unit cells fit in the viewport, the other
// (the primary axis) grows with scroll.
//
// Packing is lazy. A query for a rectangle or a single item packs only as far
// as that query needs, and remembers how far it got, so repeated queries while
// scrolling cost amortized constant work per newly revealed row.
//
// # Epochs
//
// All packed state (occupancy grid, scan cursor, furthest cell, insertion
// cursor, attribute cache) lives in a single epoch value. Any configuration
// change, viewport size change, explicit Invalidate, or mid-sequence structural
// change replaces the epoch wholesale.
//
// # Usage
//
//	l := mosaic.New(items, items, mosaic.Options{
//	    Axis:     mosaic.Vertical,
//	    Unit:     geom.Size{W: 100, H: 100},
//	    Viewport: geom.Size{W: 400, H: 800},
//	})
//	for _, f := range l.FramesForRect(visible) {
//	    draw(f.ID, f.Rect)
//	}
//
// # Concurrency
//
// A Layout is not safe for concurrent use. It is meant to be driven from the
// single goroutine that owns the host's layout pass. Hosts that serve layout
// queries concurrently must hold one mutex around every call (see
// pkg/session).
package mosaic
