package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxSpan bounds an item's footprint along either axis, in grid units.
// Larger spans are almost always a unit mix-up (pixels passed as units).
const MaxSpan = 1 << 10

// ValidateSpan validates an item footprint read from a manifest or request.
// Zero is allowed and means "let the engine default it"; negative spans and
// absurdly large spans are rejected.
func ValidateSpan(w, h int) error {
	if w < 0 || h < 0 {
		return New(ErrCodeInvalidItem, "span cannot be negative: %dx%d", w, h)
	}
	if w > MaxSpan || h > MaxSpan {
		return New(ErrCodeInvalidItem, "span too large: %dx%d (max %d)", w, h, MaxSpan)
	}
	return nil
}

// ValidateUnitSize validates the pixel size of one grid unit.
func ValidateUnitSize(w, h float64) error {
	if math.IsNaN(w) || math.IsNaN(h) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return New(ErrCodeInvalidConfig, "unit size must be finite")
	}
	if w <= 0 || h <= 0 {
		return New(ErrCodeInvalidConfig, "unit size must be positive: %gx%g", w, h)
	}
	return nil
}

// ValidateViewport validates a viewport size. A zero viewport is allowed
// (capacity clamps to one column); negative sizes are rejected.
func ValidateViewport(w, h float64) error {
	if math.IsNaN(w) || math.IsNaN(h) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return New(ErrCodeInvalidConfig, "viewport size must be finite")
	}
	if w < 0 || h < 0 {
		return New(ErrCodeInvalidConfig, "viewport size cannot be negative: %gx%g", w, h)
	}
	return nil
}

// ValidateLabel validates a display label for an item or group.
//
// The rules are conservative:
//   - Maximum length of 256 characters
//   - No control characters
func ValidateLabel(label string) error {
	if len(label) > 256 {
		return New(ErrCodeInvalidItem, "label too long (max 256 characters)")
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidItem, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidateManifestFilename validates a manifest path by extension.
// Only TOML and JSON manifests are understood.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml", ".json":
		return nil
	default:
		return New(ErrCodeInvalidManifest, "unsupported manifest extension: %q (want .toml or .json)", filepath.Ext(filename))
	}
}
