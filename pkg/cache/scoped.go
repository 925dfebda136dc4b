package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis without seeing each other's snapshots.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(manifestHash string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(manifestHash, opts)
}
