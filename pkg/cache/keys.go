package cache

// Keyer builds cache keys for layout snapshots.
type Keyer interface {
	// SnapshotKey returns the key for a snapshot of the manifest with the
	// given content hash laid out with opts.
	SnapshotKey(manifestHash string, opts SnapshotKeyOpts) string
}

// SnapshotKeyOpts lists every option that changes a snapshot's content.
type SnapshotKeyOpts struct {
	Axis           string  `json:"axis"`
	UnitWidth      float64 `json:"unit_width"`
	UnitHeight     float64 `json:"unit_height"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
	ContentInset   float64 `json:"content_inset"`
	Eager          bool    `json:"eager"`
	Rect           string  `json:"rect,omitempty"`
}

// DefaultKeyer produces unscoped keys of the form "snapshot:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SnapshotKey implements Keyer.
func (DefaultKeyer) SnapshotKey(manifestHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", manifestHash, opts)
}
