package mosaic

import "github.com/matzehuels/mosaic/pkg/observability"

// place finds the first feasible anchor for id and commits it.
//
// Candidates are scanned bound-first starting at (0, firstOpen). Rows whose
// every bound cell is occupied push firstOpen forward. Packing is first-fit:
// there is no backtracking. It returns false only on an invariant violation.
func (l *Layout) place(id ItemID) bool {
	ep := l.ep
	ext := l.extentFor(id)

	// A fully empty row exists at furthest+1, and any empty row accepts an
	// anchor at bound 0, so the scan can never legitimately pass that row.
	start := ep.firstOpen
	last := start
	if ep.grid.items() > 0 {
		last = max(last, ep.furthest.primary+1)
	}

	allTaken := true
	for row := start; row <= last; row++ {
		for b := 0; b < ep.capacity; b++ {
			p := gridPos{bound: b, primary: row}
			if ep.grid.isOccupied(p) {
				continue
			}
			if allTaken {
				ep.firstOpen = row
				allTaken = false
			}
			ok, oversized := l.fits(p, ext)
			if !ok {
				continue
			}
			if err := ep.grid.commit(id, p, ext); err != nil {
				l.violate("commit %s at %v: %v", id, l.axis.cellOf(p), err)
				return false
			}
			if oversized {
				l.noteOversized(p, ext)
			}
			l.afterCommit(id, p, ext)
			return true
		}
	}

	l.violate("no feasible anchor for %s (%dx%d) in rows %d..%d", id, ext.bound, ext.primary, start, last)
	return false
}

// fits tests the whole footprint anchored at p. A footprint that crosses
// capacity is accepted only when anchored at bound 0, so items wider than
// the viewport still make progress; oversized reports that case.
func (l *Layout) fits(p gridPos, ext extent) (ok, oversized bool) {
	ep := l.ep
	outside := false
	free := forEachCell(p, ext, func(c gridPos) bool {
		if c.bound >= ep.capacity {
			outside = true
		}
		return !ep.grid.isOccupied(c)
	})
	if !free {
		return false, false
	}
	if !outside {
		return true, false
	}
	if p.bound != 0 {
		return false, false
	}
	return true, true
}

// noteOversized records a committed item that crosses capacity.
func (l *Layout) noteOversized(p gridPos, ext extent) {
	l.ep.oversized++
	l.logger.Warn("item wider than viewport, placing anyway",
		"span", ext.bound, "capacity", l.ep.capacity, "row", p.primary)
	observability.Layout().OnDiagnostic("oversized_item")
}

// afterCommit updates the epoch cursors for a freshly committed item.
func (l *Layout) afterCommit(id ItemID, anchor gridPos, ext extent) {
	ep := l.ep

	last := gridPos{
		bound:   anchor.bound + ext.bound - 1,
		primary: anchor.primary + ext.primary - 1,
	}
	ep.furthest.bound = max(ep.furthest.bound, last.bound)
	ep.furthest.primary = max(ep.furthest.primary, last.primary)

	// Later items may never anchor above this one.
	ep.firstOpen = max(ep.firstOpen, anchor.primary)

	ep.cursor = id
	ep.hasCursor = true
}
