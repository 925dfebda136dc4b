package mosaic

import (
	"math"
	"slices"

	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/observability"
)

// attrCache remembers the single most recent rectangle query.
type attrCache struct {
	valid  bool
	rect   geom.Rect
	frames []Frame
}

// maxRow caps row indices derived from pixel coordinates so that huge
// rectangles still convert to int.
const maxRow = math.MaxInt32

// rowRange maps r to the half-open range of primary rows it touches.
func (l *Layout) rowRange(r geom.Rect) (start, end int) {
	if r.IsEmpty() {
		return 0, 0
	}
	lo, hi := l.axis.primaryRange(r)
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 0
	}
	unit := l.axis.primaryLen(l.unit)
	start = int(clampRow(math.Floor(lo / unit)))
	end = max(int(clampRow(math.Ceil(hi/unit))), start)
	return start, end
}

func clampRow(v float64) float64 {
	return min(max(v, 0), maxRow)
}

// contentRows returns the number of primary rows holding placed cells.
func (ep *epoch) contentRows() int {
	if ep.grid.items() == 0 {
		return 0
	}
	return ep.furthest.primary + 1
}

// framesForRect answers a viewport query, reusing the previous answer when
// the rectangle is unchanged.
func (l *Layout) framesForRect(r geom.Rect) []Frame {
	ep := l.ep
	if ep.cache.valid && ep.cache.rect == r {
		ep.cacheHits++
		observability.Layout().OnQuery(true, len(ep.cache.frames))
		return slices.Clone(ep.cache.frames)
	}
	ep.cacheMisses++

	start, end := l.rowRange(r)
	if end > start {
		l.ensureThroughRow(end)
	}
	// Rows past the furthest placed cell are empty.
	end = min(end, ep.contentRows())

	seen := make(map[ItemID]struct{})
	frames := make([]Frame, 0)
	for row := start; row < end; row++ {
		for b := 0; b < ep.capacity; b++ {
			id, ok := ep.grid.occupantAt(gridPos{bound: b, primary: row})
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if f, ok := l.resolvePlaced(id); ok {
				frames = append(frames, f)
			}
		}
	}
	slices.SortFunc(frames, func(a, b Frame) int { return a.ID.Compare(b.ID) })

	ep.cache = attrCache{valid: true, rect: r, frames: frames}
	observability.Layout().OnQuery(false, len(frames))
	return slices.Clone(frames)
}
