// Package pipeline turns a manifest into a layout snapshot.
//
// The pipeline is the one-shot counterpart of a live layout session: it
// builds a [mosaic.Layout] for a manifest, packs either the whole manifest or
// only the rows a query rectangle touches, and returns a serializable
// [Snapshot]. Snapshots are cached by manifest content and options, so the CLI
// and server share the same caching behavior.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	snap, hit, err := runner.Layout(ctx, m, pipeline.Options{
//	    ViewportWidth: 400,
//	    Rect:          "0,0,400,800",
//	})
//	if err != nil {
//	    return err
//	}
//	err = snap.WriteFile("layout.json")
package pipeline

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultAxis is the default scroll direction.
	DefaultAxis = "vertical"

	// DefaultUnit is the default pixel size of one grid unit along each axis.
	DefaultUnit = 100.0

	// DefaultViewportWidth is the default viewport width in pixels.
	DefaultViewportWidth = 800.0

	// DefaultViewportHeight is the default viewport height in pixels.
	DefaultViewportHeight = 600.0
)

// Format constants for snapshot output.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// ValidFormats is the set of supported snapshot formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatText: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one layout run. It supports JSON for server requests.
type Options struct {
	Axis           string  `json:"axis,omitempty"`
	UnitWidth      float64 `json:"unit_width,omitempty"`
	UnitHeight     float64 `json:"unit_height,omitempty"`
	ViewportWidth  float64 `json:"viewport_width,omitempty"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
	ContentInset   float64 `json:"content_inset,omitempty"`
	Eager          bool    `json:"eager,omitempty"`

	// Rect limits the snapshot to items in the rows it touches, as "x,y,w,h".
	// Empty means the whole manifest.
	Rect string `json:"rect,omitempty"`

	// Refresh skips the cache lookup and overwrites the entry.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Strict bool        `json:"-"`

	axis      mosaic.Axis
	rect      *geom.Rect
	validated bool
}

// ValidateAndSetDefaults checks every field and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	axis, err := mosaic.ParseAxis(o.Axis)
	if err != nil {
		return err
	}
	o.axis = axis
	o.Axis = axis.String()

	if err := errors.ValidateUnitSize(o.UnitWidth, o.UnitHeight); err != nil {
		return err
	}
	if err := errors.ValidateViewport(o.ViewportWidth, o.ViewportHeight); err != nil {
		return err
	}
	if o.ContentInset < 0 || math.IsNaN(o.ContentInset) {
		return errors.New(errors.ErrCodeInvalidConfig, "content inset cannot be negative")
	}
	if o.Rect != "" {
		r, err := ParseRect(o.Rect)
		if err != nil {
			return err
		}
		o.rect = &r
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.Axis == "" {
		o.Axis = DefaultAxis
	}
	if o.UnitWidth == 0 {
		o.UnitWidth = DefaultUnit
	}
	if o.UnitHeight == 0 {
		o.UnitHeight = DefaultUnit
	}
	if o.ViewportWidth == 0 && o.ViewportHeight == 0 {
		o.ViewportWidth = DefaultViewportWidth
		o.ViewportHeight = DefaultViewportHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions returns the engine options. Call ValidateAndSetDefaults first.
func (o *Options) LayoutOptions(insets mosaic.InsetProvider) mosaic.Options {
	return mosaic.Options{
		Axis:         o.axis,
		Unit:         geom.Size{W: o.UnitWidth, H: o.UnitHeight},
		Eager:        o.Eager,
		Viewport:     geom.Size{W: o.ViewportWidth, H: o.ViewportHeight},
		ContentInset: geom.Uniform(o.ContentInset),
		Insets:       insets,
		Logger:       o.Logger,
		Strict:       o.Strict,
	}
}

// QueryRect returns the parsed query rectangle, if any.
func (o *Options) QueryRect() (geom.Rect, bool) {
	if o.rect == nil {
		return geom.Rect{}, false
	}
	return *o.rect, true
}

// SnapshotKeyOpts returns cache key options.
func (o *Options) SnapshotKeyOpts() cache.SnapshotKeyOpts {
	return cache.SnapshotKeyOpts{
		Axis:           o.Axis,
		UnitWidth:      o.UnitWidth,
		UnitHeight:     o.UnitHeight,
		ViewportWidth:  o.ViewportWidth,
		ViewportHeight: o.ViewportHeight,
		ContentInset:   o.ContentInset,
		Eager:          o.Eager,
		Rect:           o.Rect,
	}
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, text)", format)
	}
	return nil
}

// ParseRect parses "x,y,w,h" into a rectangle. Width and height may be zero
// (an empty query) but not negative.
func ParseRect(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidRect, "rect %q: want x,y,w,h", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return geom.Rect{}, errors.New(errors.ErrCodeInvalidRect, "rect %q: %q is not a finite number", s, p)
		}
		v[i] = f
	}
	if v[2] < 0 || v[3] < 0 {
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidRect, "rect %q: size cannot be negative", s)
	}
	return geom.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}
