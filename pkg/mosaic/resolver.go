package mosaic

import (
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/observability"
)

// extentFor returns the footprint of id for the current epoch. The first
// lookup asks the size provider; later lookups reuse the memoized answer so
// a frame always matches what was packed.
func (l *Layout) extentFor(id ItemID) extent {
	ep := l.ep
	if ext, ok := ep.sizes[id]; ok {
		return ext
	}
	span := UnitSpan
	if l.sizes != nil {
		span = l.sizes.SizeForItem(id)
	}
	if !span.Valid() {
		ep.degraded++
		l.logger.Debug("no usable size for item, assuming 1x1", "item", id, "w", span.W, "h", span.H)
		observability.Layout().OnDiagnostic("missing_size")
		span = UnitSpan
	}
	ext := l.axis.extentOf(span)
	ep.sizes[id] = ext
	return ext
}

// insetsFor returns the delegate's insets for id, or zero without one.
func (l *Layout) insetsFor(id ItemID) geom.Insets {
	if l.insets == nil {
		return geom.Insets{}
	}
	return l.insets.InsetsForItem(id)
}

// availableBound is the viewport length along the bound axis after the
// host's content insets.
func (l *Layout) availableBound() float64 {
	return l.axis.boundLen(l.viewport) - l.axis.boundInsets(l.contentInset)
}

// padding splits the space left after all capacity columns evenly between
// both bound-axis edges.
func (l *Layout) padding() float64 {
	unit := l.axis.boundLen(l.unit)
	return (l.availableBound() - float64(l.ep.capacity)*unit) / 2
}

// frameFor resolves id to a pixel frame, packing forward if id has not been
// placed yet. ok is false when id does not exist in the source.
func (l *Layout) frameFor(id ItemID) (Frame, bool) {
	if !l.ensureThroughItem(id) {
		return Frame{}, false
	}
	return l.resolvePlaced(id)
}

// resolvePlaced converts a placed item to its frame without packing.
func (l *Layout) resolvePlaced(id ItemID) (Frame, bool) {
	ep := l.ep
	anchor, ok := ep.grid.anchorOf(id)
	if !ok {
		l.violate("frame requested for unplaced item %s", id)
		return Frame{}, false
	}
	ext, ok := ep.sizes[id]
	if !ok {
		l.violate("placed item %s has no recorded footprint", id)
		return Frame{}, false
	}

	unitBound := l.axis.boundLen(l.unit)
	unitPrimary := l.axis.primaryLen(l.unit)

	r := l.axis.rect(
		float64(anchor.bound)*unitBound+l.padding(),
		float64(anchor.primary)*unitPrimary,
		float64(ext.bound)*unitBound,
		float64(ext.primary)*unitPrimary,
	)
	return Frame{ID: id, Rect: r.Inset(l.insetsFor(id))}, true
}
