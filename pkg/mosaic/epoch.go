package mosaic

// epoch owns every piece of packed state between two invalidations.
// Replacing the epoch pointer is the only way state is rolled back, so a
// query always observes either a fresh epoch or a fully consistent old one.
type epoch struct {
	seq      int
	capacity int
	grid     *grid

	// firstOpen is the lowest primary row still open to placement. Rows
	// below it are either full or above the previous item's anchor row.
	firstOpen int
	// furthest is the component-wise maximum over every placed cell.
	furthest gridPos

	// cursor is the last item packed; packing resumes right after it.
	cursor    ItemID
	hasCursor bool

	// sizes memoizes footprints so frames always match what was packed.
	sizes map[ItemID]extent

	cache attrCache

	fills       int
	oversized   int
	degraded    int
	violations  int
	cacheHits   int
	cacheMisses int
}

func newEpoch(seq, capacity int) *epoch {
	return &epoch{
		seq:      seq,
		capacity: capacity,
		grid:     newGrid(),
		sizes:    make(map[ItemID]extent),
	}
}

// Stats is a snapshot of the current epoch's bookkeeping.
type Stats struct {
	Epoch        int    `json:"epoch"`
	Capacity     int    `json:"capacity"`
	Packed       int    `json:"packed"`
	LastPacked   ItemID `json:"last_packed"`
	HasPacked    bool   `json:"has_packed"`
	FirstOpenRow int    `json:"first_open_row"`
	Furthest     Cell   `json:"furthest"`
	Fills        int    `json:"fills"`
	CacheHits    int    `json:"cache_hits"`
	CacheMisses  int    `json:"cache_misses"`
	Oversized    int    `json:"oversized"`
	Degraded     int    `json:"degraded"`
	Violations   int    `json:"violations"`
}
