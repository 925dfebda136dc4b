package mosaic

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/observability"
)

// DefaultUnit is the pixel size of one grid unit when none is configured.
var DefaultUnit = geom.Size{W: 100, H: 100}

// Options configures a Layout.
type Options struct {
	// Axis is the scroll direction. Defaults to Vertical.
	Axis Axis

	// Unit is the pixel size of one grid unit. Defaults to DefaultUnit.
	Unit geom.Size

	// Eager packs the whole source on the first query. Use it for small,
	// fully known collections where whole-grid layout is cheap.
	Eager bool

	// Viewport is the visible size of the scroll view.
	Viewport geom.Size

	// ContentInset is subtracted from the viewport before computing capacity.
	ContentInset geom.Insets

	// Insets supplies optional per-item insets.
	Insets InsetProvider

	// Logger receives diagnostics. Defaults to log.Default().
	Logger *log.Logger

	// Strict turns invariant violations into panics.
	Strict bool
}

// Layout is the packing engine for one scroll view.
type Layout struct {
	src    ItemSource
	sizes  SizeProvider
	insets InsetProvider

	axis         Axis
	unit         geom.Size
	eager        bool
	viewport     geom.Size
	contentInset geom.Insets

	logger *log.Logger
	strict bool

	epochs int
	ep     *epoch
}

// New creates a layout over src using sizes for item footprints.
// Either may be nil: a nil source has no items, a nil size provider makes
// every item 1×1.
func New(src ItemSource, sizes SizeProvider, opts Options) *Layout {
	l := &Layout{
		src:          src,
		sizes:        sizes,
		insets:       opts.Insets,
		axis:         opts.Axis,
		unit:         normalizeUnit(opts.Unit),
		eager:        opts.Eager,
		viewport:     opts.Viewport,
		contentInset: opts.ContentInset,
		logger:       opts.Logger,
		strict:       opts.Strict,
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	l.reset("init")
	return l
}

func normalizeUnit(u geom.Size) geom.Size {
	if u.W > 0 && u.H > 0 && !math.IsInf(u.W, 0) && !math.IsInf(u.H, 0) {
		return u
	}
	return DefaultUnit
}

// reset discards the current epoch and starts an empty one.
func (l *Layout) reset(reason string) {
	l.epochs++
	l.ep = newEpoch(l.epochs, l.computeCapacity())
	observability.Layout().OnEpochReset(reason)
	l.logger.Debug("layout epoch reset", "reason", reason, "epoch", l.epochs, "capacity", l.ep.capacity)
}

// computeCapacity returns how many unit cells fit along the bound axis,
// clamped to at least one.
func (l *Layout) computeCapacity() int {
	avail := l.availableBound()
	unit := l.axis.boundLen(l.unit)
	n := 0
	if avail > 0 {
		n = int(math.Floor(avail / unit))
	}
	if n < 1 {
		l.logger.Warn("cannot fit a unit cell in the viewport, defaulting capacity to 1",
			"available", avail, "unit", unit, "axis", l.axis)
		observability.Layout().OnDiagnostic("capacity_clamp")
		return 1
	}
	return n
}

// Configure sets the scroll direction, unit size and fill mode, and starts a
// new epoch.
func (l *Layout) Configure(axis Axis, unit geom.Size, eager bool) {
	l.axis = axis
	l.unit = normalizeUnit(unit)
	l.eager = eager
	l.reset("configure")
}

// SetDelegate replaces the size and inset providers and starts a new epoch.
func (l *Layout) SetDelegate(sizes SizeProvider, insets InsetProvider) {
	l.sizes = sizes
	l.insets = insets
	l.reset("delegate")
}

// SetSource replaces the item source and starts a new epoch.
func (l *Layout) SetSource(src ItemSource) {
	l.src = src
	l.reset("source")
}

// SetViewport updates the visible size and content insets. Packed state is
// discarded only when either actually changes; scrolling alone never
// invalidates. It reports whether a new epoch started.
func (l *Layout) SetViewport(size geom.Size, inset geom.Insets) bool {
	if size == l.viewport && inset == l.contentInset {
		return false
	}
	l.viewport = size
	l.contentInset = inset
	l.reset("viewport")
	return true
}

// Prepare packs ahead for a viewport scrolled to offset: everything through
// the row after the visible one is packed so ContentExtent is meaningful.
func (l *Layout) Prepare(offset geom.Point) {
	if l.eager {
		l.ensureAll()
		return
	}
	bottom := l.axis.primaryOf(offset) + l.axis.primaryLen(l.viewport)
	row := int(bottom/l.axis.primaryLen(l.unit)) + 1
	l.ensureThroughRow(max(row, 0))
}

// ContentExtent returns the scrollable content size. Along the primary axis
// it covers every packed row plus one unit; along the bound axis it is the
// viewport length after content insets.
func (l *Layout) ContentExtent() geom.Size {
	primary := float64(l.ep.furthest.primary+1) * l.axis.primaryLen(l.unit)
	return l.axis.size(l.availableBound(), primary)
}

// FramesForRect returns the frames of every item owning a cell in the rows
// r touches, deduplicated and sorted by ItemID. It packs only as far as r
// requires.
func (l *Layout) FramesForRect(r geom.Rect) []Frame {
	return l.framesForRect(r)
}

// FrameFor returns the frame of a single item, packing up to it if needed.
// ok is false only when the source has no such item.
func (l *Layout) FrameFor(id ItemID) (Frame, bool) {
	return l.frameFor(id)
}

// Frames packs the whole source and returns every item's frame in
// sequential order. Use it for export; scrolling hosts should query by
// rectangle instead.
func (l *Layout) Frames() []Frame {
	l.ensureAll()
	var out []Frame
	if l.src == nil {
		return out
	}
	for g := 0; g < l.src.GroupCount(); g++ {
		for o := 0; o < l.src.ItemCount(g); o++ {
			if f, ok := l.resolvePlaced(ItemID{Group: g, Ordinal: o}); ok {
				out = append(out, f)
			}
		}
	}
	return out
}

// CellFor returns the anchor cell of id, packing up to it if needed.
func (l *Layout) CellFor(id ItemID) (Cell, bool) {
	if !l.ensureThroughItem(id) {
		return Cell{}, false
	}
	p, _ := l.ep.grid.anchorOf(id)
	return l.axis.cellOf(p), true
}

// OccupantAt returns the item owning the given cell, if it has been packed.
// It never packs.
func (l *Layout) OccupantAt(c Cell) (ItemID, bool) {
	return l.ep.grid.occupantAt(l.axis.posOf(c))
}

// NotifyStructuralChange tells the layout that items at or after id were
// inserted, moved, or deleted.
//
// Placed anchors are never shifted to follow renumbered items. A change at or
// before the last packed item therefore starts a new epoch so everything is
// re-packed in the new order. A change past the insertion cursor leaves the
// packed prefix intact and only drops the attribute cache. Moves always start
// a new epoch because their source index is unknown.
func (l *Layout) NotifyStructuralChange(kind ChangeKind, id ItemID) {
	ep := l.ep
	if kind == ChangeMove || (ep.hasCursor && !ep.cursor.Less(id)) {
		l.reset(kind.String())
		return
	}
	ep.cache = attrCache{}
	l.logger.Debug("trailing structural change, cache dropped", "kind", kind, "item", id)
}

// Invalidate discards all packed state.
func (l *Layout) Invalidate() {
	l.reset("invalidate")
}

// Axis returns the configured scroll direction.
func (l *Layout) Axis() Axis { return l.axis }

// Unit returns the configured unit size.
func (l *Layout) Unit() geom.Size { return l.unit }

// Eager reports whether the layout packs everything on the first query.
func (l *Layout) Eager() bool { return l.eager }

// Viewport returns the configured viewport size.
func (l *Layout) Viewport() geom.Size { return l.viewport }

// Capacity returns the number of unit cells along the bound axis.
func (l *Layout) Capacity() int { return l.ep.capacity }

// Stats returns the current epoch's bookkeeping.
func (l *Layout) Stats() Stats {
	ep := l.ep
	return Stats{
		Epoch:        ep.seq,
		Capacity:     ep.capacity,
		Packed:       ep.grid.items(),
		LastPacked:   ep.cursor,
		HasPacked:    ep.hasCursor,
		FirstOpenRow: ep.firstOpen,
		Furthest:     l.axis.cellOf(ep.furthest),
		Fills:        ep.fills,
		CacheHits:    ep.cacheHits,
		CacheMisses:  ep.cacheMisses,
		Oversized:    ep.oversized,
		Degraded:     ep.degraded,
		Violations:   ep.violations,
	}
}
