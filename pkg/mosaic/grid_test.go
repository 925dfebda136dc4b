package mosaic

import "testing"

func TestGridCommit(t *testing.T) {
	g := newGrid()
	a := ItemID{Ordinal: 0}

	if err := g.commit(a, gridPos{bound: 1, primary: 2}, extent{bound: 2, primary: 2}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	for _, p := range []gridPos{{1, 2}, {2, 2}, {1, 3}, {2, 3}} {
		if id, ok := g.occupantAt(p); !ok || id != a {
			t.Errorf("occupantAt(%v) = %v, %v; want %v", p, id, ok, a)
		}
	}
	if g.isOccupied(gridPos{bound: 0, primary: 2}) {
		t.Error("cell outside the footprint should be free")
	}
	if anchor, ok := g.anchorOf(a); !ok || anchor != (gridPos{1, 2}) {
		t.Errorf("anchorOf = %v, %v", anchor, ok)
	}
	if g.items() != 1 {
		t.Errorf("items() = %d, want 1", g.items())
	}
}

func TestGridCommitConflictDoesNotMutate(t *testing.T) {
	g := newGrid()
	a, b := ItemID{Ordinal: 0}, ItemID{Ordinal: 1}

	if err := g.commit(a, gridPos{0, 0}, extent{1, 1}); err != nil {
		t.Fatalf("commit a: %v", err)
	}
	if err := g.commit(b, gridPos{0, 0}, extent{2, 1}); err == nil {
		t.Fatal("overlapping commit should fail")
	}
	if g.isOccupied(gridPos{1, 0}) {
		t.Error("failed commit must not mark any cell")
	}
	if _, ok := g.anchorOf(b); ok {
		t.Error("failed commit must not record an anchor")
	}
}

func TestGridCommitTwice(t *testing.T) {
	g := newGrid()
	a := ItemID{Ordinal: 0}
	if err := g.commit(a, gridPos{0, 0}, extent{1, 1}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := g.commit(a, gridPos{3, 3}, extent{1, 1}); err == nil {
		t.Error("re-anchoring an item should fail")
	}
}

func TestForEachCellStopsEarly(t *testing.T) {
	visited := 0
	complete := forEachCell(gridPos{}, extent{3, 3}, func(gridPos) bool {
		visited++
		return visited < 4
	})
	if complete {
		t.Error("forEachCell should report early stop")
	}
	if visited != 4 {
		t.Errorf("visited %d cells, want 4", visited)
	}
}
