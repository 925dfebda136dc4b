package manifest

import (
	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// Insert places it at id, shifting later items in the group. Inserting at
// one past the last ordinal appends. The returned ID is the one to report to
// the layout as an insert.
func (m *Manifest) Insert(id mosaic.ItemID, it Item) (mosaic.ItemID, error) {
	if err := validateItem(it); err != nil {
		return id, err
	}
	if id.Group < 0 || id.Group >= len(m.Groups) {
		return id, errors.New(errors.ErrCodeItemNotFound, "no group %d", id.Group)
	}
	items := m.Groups[id.Group].Items
	if id.Ordinal < 0 || id.Ordinal > len(items) {
		return id, errors.New(errors.ErrCodeItemNotFound, "cannot insert at %s", id)
	}
	items = append(items, Item{})
	copy(items[id.Ordinal+1:], items[id.Ordinal:])
	items[id.Ordinal] = it
	m.Groups[id.Group].Items = items
	return id, nil
}

// Remove deletes the item at id and returns it.
func (m *Manifest) Remove(id mosaic.ItemID) (Item, error) {
	if !m.has(id) {
		return Item{}, errors.New(errors.ErrCodeItemNotFound, "no item %s", id)
	}
	items := m.Groups[id.Group].Items
	it := items[id.Ordinal]
	m.Groups[id.Group].Items = append(items[:id.Ordinal], items[id.Ordinal+1:]...)
	return it, nil
}

// Move relocates the item at from so that it ends up at to. The returned ID
// is the destination to report to the layout as a move.
func (m *Manifest) Move(from, to mosaic.ItemID) (mosaic.ItemID, error) {
	if !m.has(from) {
		return to, errors.New(errors.ErrCodeItemNotFound, "no item %s", from)
	}
	it, _ := m.Remove(from)
	if _, err := m.Insert(to, it); err != nil {
		// Put it back where it was; from is valid again after the removal.
		_, _ = m.Insert(from, it)
		return to, err
	}
	return to, nil
}

// AddGroup appends an empty group and returns its index.
func (m *Manifest) AddGroup(name string) (int, error) {
	if err := errors.ValidateLabel(name); err != nil {
		return -1, err
	}
	m.Groups = append(m.Groups, Group{Name: name})
	return len(m.Groups) - 1, nil
}
