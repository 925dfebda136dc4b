package mosaic

import "github.com/matzehuels/mosaic/pkg/geom"

// ItemSource reports how many items exist. It is consulted lazily while
// packing; counts may change between epochs but must stay stable within one
// unless the host signals the change.
type ItemSource interface {
	GroupCount() int
	ItemCount(group int) int
}

// SizeProvider supplies item footprints in grid units. Returning a span with
// a non-positive dimension means "no size data"; the engine then treats the
// item as 1×1.
type SizeProvider interface {
	SizeForItem(id ItemID) Span
}

// InsetProvider optionally supplies per-item pixel insets applied to the
// resolved frame. Without one, insets are zero.
type InsetProvider interface {
	InsetsForItem(id ItemID) geom.Insets
}

// SizeFunc adapts a function to SizeProvider.
type SizeFunc func(id ItemID) Span

// SizeForItem calls f(id).
func (f SizeFunc) SizeForItem(id ItemID) Span { return f(id) }

// InsetFunc adapts a function to InsetProvider.
type InsetFunc func(id ItemID) geom.Insets

// InsetsForItem calls f(id).
func (f InsetFunc) InsetsForItem(id ItemID) geom.Insets { return f(id) }

// Counts is an ItemSource backed by a slice of per-group item counts.
type Counts []int

// GroupCount returns the number of groups.
func (c Counts) GroupCount() int { return len(c) }

// ItemCount returns the number of items in group, or 0 when out of range.
func (c Counts) ItemCount(group int) int {
	if group < 0 || group >= len(c) {
		return 0
	}
	return c[group]
}

// ChangeKind classifies a structural change reported by the host.
type ChangeKind int

const (
	// ChangeInsert reports an item inserted at the given ID.
	ChangeInsert ChangeKind = iota
	// ChangeMove reports an item moved to the given ID.
	ChangeMove
	// ChangeDelete reports an item removed from the given ID.
	ChangeDelete
)

// String returns the change name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeMove:
		return "move"
	case ChangeDelete:
		return "delete"
	default:
		return "insert"
	}
}
