// Package manifest loads item collections for the layout engine from TOML or
// JSON files.
//
// A manifest lists groups of items, each item with a footprint in grid units
// and an optional uniform pixel inset:
//
//	inset = 1.0
//
//	[[group]]
//	name = "featured"
//
//	  [[group.item]]
//	  label = "hero"
//	  w = 2
//	  h = 2
//
//	  [[group.item]]
//	  label = "thumb"
//	  w = 1
//	  h = 1
//	  inset = 0.0
//
// A *Manifest implements mosaic.ItemSource, mosaic.SizeProvider and
// mosaic.InsetProvider, so it can drive a layout directly. It is not safe for
// concurrent use.
package manifest

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// Supported encodings.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Item is one entry of a manifest.
type Item struct {
	Label string   `toml:"label,omitempty" json:"label,omitempty"`
	W     int      `toml:"w" json:"w"`
	H     int      `toml:"h" json:"h"`
	Inset *float64 `toml:"inset,omitempty" json:"inset,omitempty"`
}

// Span returns the item's footprint.
func (it Item) Span() mosaic.Span { return mosaic.Span{W: it.W, H: it.H} }

// Group is an ordered run of items.
type Group struct {
	Name  string `toml:"name,omitempty" json:"name,omitempty"`
	Items []Item `toml:"item" json:"items"`
}

// Manifest is an ordered collection of groups.
type Manifest struct {
	// Inset is the default uniform inset for items without their own.
	Inset  float64 `toml:"inset,omitempty" json:"inset,omitempty"`
	Groups []Group `toml:"group" json:"groups"`
}

var (
	_ mosaic.ItemSource    = (*Manifest)(nil)
	_ mosaic.SizeProvider  = (*Manifest)(nil)
	_ mosaic.InsetProvider = (*Manifest)(nil)
)

// Load reads and validates a manifest file. The format follows the file
// extension.
func Load(path string) (*Manifest, error) {
	if err := errors.ValidateManifestFilename(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return Parse(data, FormatFor(path))
}

// FormatFor returns the encoding implied by a file name.
func FormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Parse decodes and validates manifest data.
func Parse(data []byte, format string) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode json manifest")
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode toml manifest")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown manifest format %q", format)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks labels, spans and insets.
func (m *Manifest) Validate() error {
	if m.Inset < 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "default inset cannot be negative")
	}
	for g, grp := range m.Groups {
		if err := errors.ValidateLabel(grp.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "group %d", g)
		}
		for i, it := range grp.Items {
			if err := validateItem(it); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidManifest, err, "item %d:%d", g, i)
			}
		}
	}
	return nil
}

func validateItem(it Item) error {
	if err := errors.ValidateLabel(it.Label); err != nil {
		return err
	}
	if err := errors.ValidateSpan(it.W, it.H); err != nil {
		return err
	}
	if it.Inset != nil && *it.Inset < 0 {
		return errors.New(errors.ErrCodeInvalidItem, "inset cannot be negative")
	}
	return nil
}

// Encode writes the manifest in the given format.
func (m *Manifest) Encode(w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(m)
	default:
		return errors.New(errors.ErrCodeInvalidManifest, "unknown manifest format %q", format)
	}
}

// WriteFile encodes the manifest to path, choosing the format by extension.
func (m *Manifest) WriteFile(path string) error {
	if err := errors.ValidateManifestFilename(path); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := m.Encode(&buf, FormatFor(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Len returns the total number of items across groups.
func (m *Manifest) Len() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Items)
	}
	return n
}

// Item returns the item at id.
func (m *Manifest) Item(id mosaic.ItemID) (Item, bool) {
	if !m.has(id) {
		return Item{}, false
	}
	return m.Groups[id.Group].Items[id.Ordinal], true
}

// Label returns the item's label, or its ID when unlabeled.
func (m *Manifest) Label(id mosaic.ItemID) string {
	if it, ok := m.Item(id); ok && it.Label != "" {
		return it.Label
	}
	return id.String()
}

func (m *Manifest) has(id mosaic.ItemID) bool {
	return id.Group >= 0 && id.Group < len(m.Groups) &&
		id.Ordinal >= 0 && id.Ordinal < len(m.Groups[id.Group].Items)
}

// GroupCount implements mosaic.ItemSource.
func (m *Manifest) GroupCount() int { return len(m.Groups) }

// ItemCount implements mosaic.ItemSource.
func (m *Manifest) ItemCount(group int) int {
	if group < 0 || group >= len(m.Groups) {
		return 0
	}
	return len(m.Groups[group].Items)
}

// SizeForItem implements mosaic.SizeProvider.
func (m *Manifest) SizeForItem(id mosaic.ItemID) mosaic.Span {
	it, ok := m.Item(id)
	if !ok {
		return mosaic.Span{}
	}
	return it.Span()
}

// InsetsForItem implements mosaic.InsetProvider.
func (m *Manifest) InsetsForItem(id mosaic.ItemID) geom.Insets {
	it, ok := m.Item(id)
	if !ok {
		return geom.Insets{}
	}
	if it.Inset != nil {
		return geom.Uniform(*it.Inset)
	}
	return geom.Uniform(m.Inset)
}
