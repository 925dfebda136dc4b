package mosaic

import (
	"testing"

	"github.com/matzehuels/mosaic/pkg/errors"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		input   string
		want    Axis
		wantErr bool
	}{
		{"vertical", Vertical, false},
		{"V", Vertical, false},
		{"", Vertical, false},
		{"horizontal", Horizontal, false},
		{" h ", Horizontal, false},
		{"diagonal", Vertical, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAxis(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAxis(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidAxis) {
				t.Errorf("error code = %v", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseAxis(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseItemID(t *testing.T) {
	tests := []struct {
		input   string
		want    ItemID
		wantErr bool
	}{
		{"0:0", ItemID{0, 0}, false},
		{"2:15", ItemID{2, 15}, false},
		{"7", ItemID{0, 7}, false},
		{"a:1", ItemID{}, true},
		{"1:-1", ItemID{}, true},
		{"", ItemID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseItemID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseItemID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseItemID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestItemIDOrdering(t *testing.T) {
	a := ItemID{Group: 0, Ordinal: 9}
	b := ItemID{Group: 1, Ordinal: 0}
	if !a.Less(b) || b.Less(a) {
		t.Error("group should dominate ordinal")
	}
	if a.Compare(a) != 0 {
		t.Error("Compare with self should be 0")
	}
	if a.String() != "0:9" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestAxisMapping(t *testing.T) {
	s := Span{W: 3, H: 1}
	if got := Vertical.extentOf(s); got != (extent{bound: 3, primary: 1}) {
		t.Errorf("vertical extent = %+v", got)
	}
	if got := Horizontal.extentOf(s); got != (extent{bound: 1, primary: 3}) {
		t.Errorf("horizontal extent = %+v", got)
	}

	for _, a := range []Axis{Vertical, Horizontal} {
		c := Cell{X: 4, Y: 9}
		if got := a.cellOf(a.posOf(c)); got != c {
			t.Errorf("%v round trip = %+v, want %+v", a, got, c)
		}
	}
}
