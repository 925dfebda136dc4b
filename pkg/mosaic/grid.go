package mosaic

import "fmt"

// grid is the sparse occupancy map for one epoch. It holds one entry per
// occupied cell and one anchor per placed item. Items are never removed
// individually; the whole grid is discarded with its epoch.
type grid struct {
	cells   map[gridPos]ItemID
	anchors map[ItemID]gridPos
}

func newGrid() *grid {
	return &grid{
		cells:   make(map[gridPos]ItemID),
		anchors: make(map[ItemID]gridPos),
	}
}

func (g *grid) isOccupied(p gridPos) bool {
	_, ok := g.cells[p]
	return ok
}

func (g *grid) occupantAt(p gridPos) (ItemID, bool) {
	id, ok := g.cells[p]
	return id, ok
}

func (g *grid) anchorOf(id ItemID) (gridPos, bool) {
	p, ok := g.anchors[id]
	return p, ok
}

// items returns the number of placed items.
func (g *grid) items() int { return len(g.anchors) }

// commit marks every cell of the footprint as owned by id and records the
// anchor. It fails without mutating anything if id is already placed or any
// target cell is taken.
func (g *grid) commit(id ItemID, anchor gridPos, ext extent) error {
	if prev, ok := g.anchors[id]; ok {
		return fmt.Errorf("item %s already anchored at %v", id, prev)
	}
	var conflict error
	forEachCell(anchor, ext, func(p gridPos) bool {
		if owner, ok := g.cells[p]; ok {
			conflict = fmt.Errorf("cell %v of item %s already owned by %s", p, id, owner)
			return false
		}
		return true
	})
	if conflict != nil {
		return conflict
	}
	forEachCell(anchor, ext, func(p gridPos) bool {
		g.cells[p] = id
		return true
	})
	g.anchors[id] = anchor
	return nil
}

// forEachCell visits the footprint of ext anchored at anchor, bound-major.
// It stops early and returns false when fn returns false.
func forEachCell(anchor gridPos, ext extent, fn func(gridPos) bool) bool {
	for b := anchor.bound; b < anchor.bound+ext.bound; b++ {
		for p := anchor.primary; p < anchor.primary+ext.primary; p++ {
			if !fn(gridPos{bound: b, primary: p}) {
				return false
			}
		}
	}
	return true
}
