package mosaic

import (
	"time"

	"github.com/matzehuels/mosaic/pkg/observability"
)

// nextItem returns the item after the insertion cursor, skipping empty
// groups. ok is false when the source has no more items.
func (l *Layout) nextItem() (ItemID, bool) {
	if l.src == nil {
		return ItemID{}, false
	}
	ep := l.ep
	groups := l.src.GroupCount()

	group, ordinal := 0, 0
	if ep.hasCursor {
		group, ordinal = ep.cursor.Group, ep.cursor.Ordinal+1
	}
	for ; group < groups; group, ordinal = group+1, 0 {
		if ordinal < l.src.ItemCount(group) {
			return ItemID{Group: group, Ordinal: ordinal}, true
		}
	}
	return ItemID{}, false
}

// exists reports whether the source currently holds id.
func (l *Layout) exists(id ItemID) bool {
	if l.src == nil || id.Group < 0 || id.Ordinal < 0 {
		return false
	}
	return id.Group < l.src.GroupCount() && id.Ordinal < l.src.ItemCount(id.Group)
}

// fill packs sequential items until done reports true or the source runs
// out. It returns the number of items placed.
func (l *Layout) fill(done func() bool) int {
	ep := l.ep
	start := time.Now()
	placed := 0
	for !done() {
		id, ok := l.nextItem()
		if !ok {
			break
		}
		if !l.place(id) {
			// The item cannot be placed; skip it so packing still advances.
			ep.cursor, ep.hasCursor = id, true
			continue
		}
		placed++
	}
	if placed > 0 {
		ep.fills++
		observability.Layout().OnPack(placed, ep.firstOpen, time.Since(start))
		l.logger.Debug("packed items", "count", placed, "first_open_row", ep.firstOpen, "epoch", ep.seq)
	}
	return placed
}

// ensureThroughRow packs until every row below end is final: no later item
// can anchor in or extend into those rows' free cells.
func (l *Layout) ensureThroughRow(end int) {
	if l.eager {
		l.ensureAll()
		return
	}
	l.fill(func() bool { return l.ep.firstOpen >= end })
}

// ensureThroughItem packs until id has an anchor. It returns false when id
// is not part of the source.
func (l *Layout) ensureThroughItem(id ItemID) bool {
	if _, ok := l.ep.grid.anchorOf(id); ok {
		return true
	}
	if !l.exists(id) {
		return false
	}
	l.fill(func() bool {
		ep := l.ep
		return ep.hasCursor && !ep.cursor.Less(id)
	})
	_, ok := l.ep.grid.anchorOf(id)
	return ok
}

// ensureAll packs every item the source reports.
func (l *Layout) ensureAll() {
	l.fill(func() bool { return false })
}
