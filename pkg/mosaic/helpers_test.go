package mosaic

import (
	"io"
	"math/rand/v2"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/geom"
)

// spans is a single-group SizeProvider and ItemSource.
type spans []Span

func (s spans) GroupCount() int { return 1 }

func (s spans) ItemCount(group int) int {
	if group != 0 {
		return 0
	}
	return len(s)
}

func (s spans) SizeForItem(id ItemID) Span {
	if id.Group != 0 || id.Ordinal < 0 || id.Ordinal >= len(s) {
		return Span{}
	}
	return s[id.Ordinal]
}

func units(n int) spans {
	out := make(spans, n)
	for i := range out {
		out[i] = UnitSpan
	}
	return out
}

func randomSpans(seed uint64, n, maxSpan int) spans {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make(spans, n)
	for i := range out {
		out[i] = Span{W: 1 + r.IntN(maxSpan), H: 1 + r.IntN(maxSpan)}
	}
	return out
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// newGridLayout builds a vertical layout whose viewport holds exactly
// capacity unit columns of 100px.
func newGridLayout(t *testing.T, items spans, capacity int, eager bool) *Layout {
	t.Helper()
	return newAxisLayout(t, items, capacity, Vertical, eager)
}

// newAxisLayout is newGridLayout for either scroll direction.
func newAxisLayout(t *testing.T, items spans, capacity int, axis Axis, eager bool) *Layout {
	t.Helper()
	viewport := geom.Size{W: float64(capacity) * 100, H: 400}
	if axis == Horizontal {
		viewport = geom.Size{W: 400, H: float64(capacity) * 100}
	}
	return New(items, items, Options{
		Axis:     axis,
		Unit:     geom.Size{W: 100, H: 100},
		Viewport: viewport,
		Eager:    eager,
		Logger:   quietLogger(),
		Strict:   true,
	})
}

func mustCell(t *testing.T, l *Layout, id ItemID) Cell {
	t.Helper()
	c, ok := l.CellFor(id)
	if !ok {
		t.Fatalf("CellFor(%s) not found", id)
	}
	return c
}

func item(i int) ItemID { return ItemID{Ordinal: i} }
