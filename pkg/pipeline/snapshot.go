package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// Snapshot is the serializable result of a layout run.
type Snapshot struct {
	ManifestHash string       `json:"manifest_hash,omitempty"`
	Axis         string       `json:"axis"`
	Unit         geom.Size    `json:"unit"`
	Viewport     geom.Size    `json:"viewport"`
	Capacity     int          `json:"capacity"`
	Extent       geom.Size    `json:"content_extent"`
	Rect         *geom.Rect   `json:"rect,omitempty"`
	Frames       []Frame      `json:"frames"`
	Stats        mosaic.Stats `json:"stats"`
}

// Frame is one placed item in a snapshot.
type Frame struct {
	ID    mosaic.ItemID `json:"id"`
	Label string        `json:"label,omitempty"`
	Cell  mosaic.Cell   `json:"cell"`
	Span  mosaic.Span   `json:"span"`
	Rect  geom.Rect     `json:"rect"`
}

// Compute lays out m without caching. opts must already be validated.
func Compute(m *manifest.Manifest, opts *Options) *Snapshot {
	l := mosaic.New(m, m, opts.LayoutOptions(m))

	var frames []mosaic.Frame
	rect, hasRect := opts.QueryRect()
	if hasRect {
		frames = l.FramesForRect(rect)
	} else {
		frames = l.Frames()
	}

	snap := &Snapshot{
		Axis:     l.Axis().String(),
		Unit:     l.Unit(),
		Viewport: l.Viewport(),
		Capacity: l.Capacity(),
		Frames:   make([]Frame, 0, len(frames)),
	}
	if hasRect {
		snap.Rect = &rect
	}
	for _, f := range frames {
		snap.Frames = append(snap.Frames, Describe(m, l, f))
	}
	snap.Extent = l.ContentExtent()
	snap.Stats = l.Stats()
	return snap
}

// Describe enriches an engine frame with its cell, span and label. The item
// must already be placed in l.
func Describe(m *manifest.Manifest, l *mosaic.Layout, f mosaic.Frame) Frame {
	cell, _ := l.CellFor(f.ID)
	span := m.SizeForItem(f.ID)
	if !span.Valid() {
		span = mosaic.UnitSpan
	}
	return Frame{ID: f.ID, Label: m.Label(f.ID), Cell: cell, Span: span, Rect: f.Rect}
}

// Encode writes the snapshot in the given format.
func (s *Snapshot) Encode(w io.Writer, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	if format == FormatText {
		return RenderText(w, s)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// FormatForPath picks JSON for .json files and text otherwise.
func FormatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatText
}

// WriteFile encodes the snapshot to path, choosing the format by extension.
func (s *Snapshot) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf, FormatForPath(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
