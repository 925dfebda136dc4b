package mosaic

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
)

// ItemID identifies a sequential item. Items are ordered by group, then by
// ordinal within the group. IDs are stable until a structural change.
type ItemID struct {
	Group   int `json:"group"`
	Ordinal int `json:"ordinal"`
}

// Compare orders IDs sequentially. It returns -1, 0 or +1.
func (id ItemID) Compare(o ItemID) int {
	if c := cmp.Compare(id.Group, o.Group); c != 0 {
		return c
	}
	return cmp.Compare(id.Ordinal, o.Ordinal)
}

// Less reports whether id comes before o in sequential order.
func (id ItemID) Less(o ItemID) bool { return id.Compare(o) < 0 }

// String formats the ID as "group:ordinal".
func (id ItemID) String() string {
	return fmt.Sprintf("%d:%d", id.Group, id.Ordinal)
}

// ParseItemID parses "group:ordinal". A bare ordinal means group 0.
func ParseItemID(s string) (ItemID, error) {
	g, o, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		g, o = "0", g
	}
	group, err := strconv.Atoi(g)
	if err != nil || group < 0 {
		return ItemID{}, errors.New(errors.ErrCodeInvalidItem, "invalid item group in %q", s)
	}
	ordinal, err := strconv.Atoi(o)
	if err != nil || ordinal < 0 {
		return ItemID{}, errors.New(errors.ErrCodeInvalidItem, "invalid item ordinal in %q", s)
	}
	return ItemID{Group: group, Ordinal: ordinal}, nil
}

// Span is an item footprint in grid units, in screen orientation: W counts
// unit columns and H counts unit rows regardless of scroll direction.
type Span struct {
	W int `json:"w" toml:"w"`
	H int `json:"h" toml:"h"`
}

// Valid reports whether both dimensions are at least one unit.
func (s Span) Valid() bool { return s.W >= 1 && s.H >= 1 }

// UnitSpan is the footprint assumed for items without size data.
var UnitSpan = Span{W: 1, H: 1}

// Cell is a grid coordinate in screen orientation.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Frame is the resolved pixel rectangle for one item, after insets.
type Frame struct {
	ID   ItemID    `json:"id"`
	Rect geom.Rect `json:"rect"`
}
