package manifest

import (
	"testing"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

func labels(m *Manifest, group int) []string {
	var out []string
	for _, it := range m.Groups[group].Items {
		out = append(out, it.Label)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func abc() *Manifest {
	return &Manifest{Groups: []Group{{Items: []Item{
		{Label: "a", W: 1, H: 1},
		{Label: "b", W: 1, H: 1},
		{Label: "c", W: 1, H: 1},
	}}}}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name    string
		at      int
		want    []string
		wantErr bool
	}{
		{"front", 0, []string{"x", "a", "b", "c"}, false},
		{"middle", 1, []string{"a", "x", "b", "c"}, false},
		{"append", 3, []string{"a", "b", "c", "x"}, false},
		{"past end", 4, []string{"a", "b", "c"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := abc()
			_, err := m.Insert(mosaic.ItemID{Ordinal: tt.at}, Item{Label: "x", W: 1, H: 1})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Insert error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := labels(m, 0); !equalStrings(got, tt.want) {
				t.Errorf("labels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsertRejectsBadItem(t *testing.T) {
	m := abc()
	_, err := m.Insert(mosaic.ItemID{}, Item{W: -3, H: 1})
	if !errors.Is(err, errors.ErrCodeInvalidItem) {
		t.Errorf("error = %v, want INVALID_ITEM", err)
	}
	if _, err := m.Insert(mosaic.ItemID{Group: 2}, Item{W: 1, H: 1}); !errors.IsNotFound(err) {
		t.Errorf("missing group error = %v", err)
	}
}

func TestRemove(t *testing.T) {
	m := abc()
	it, err := m.Remove(mosaic.ItemID{Ordinal: 1})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if it.Label != "b" {
		t.Errorf("removed %q, want b", it.Label)
	}
	if got := labels(m, 0); !equalStrings(got, []string{"a", "c"}) {
		t.Errorf("labels = %v", got)
	}
	if _, err := m.Remove(mosaic.ItemID{Ordinal: 5}); !errors.IsNotFound(err) {
		t.Errorf("Remove out of range error = %v", err)
	}
}

func TestMove(t *testing.T) {
	m := abc()
	if _, err := m.Move(mosaic.ItemID{Ordinal: 0}, mosaic.ItemID{Ordinal: 2}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := labels(m, 0); !equalStrings(got, []string{"b", "c", "a"}) {
		t.Errorf("labels = %v", got)
	}

	if _, err := m.Move(mosaic.ItemID{Ordinal: 0}, mosaic.ItemID{Group: 4}); err == nil {
		t.Error("Move to a missing group should fail")
	}
	if got := labels(m, 0); !equalStrings(got, []string{"b", "c", "a"}) {
		t.Errorf("failed move should restore order, got %v", got)
	}
}

func TestAddGroup(t *testing.T) {
	m := abc()
	g, err := m.AddGroup("more")
	if err != nil || g != 1 {
		t.Fatalf("AddGroup = %d, %v", g, err)
	}
	if _, err := m.Insert(mosaic.ItemID{Group: 1}, Item{Label: "z", W: 2, H: 1}); err != nil {
		t.Fatalf("Insert into new group: %v", err)
	}
	if m.Len() != 4 {
		t.Errorf("Len = %d, want 4", m.Len())
	}
}
