package poll

import "fmt"

// Delta is a request for the finished entries not yet held locally.
type Delta struct {
	Index int
	Size  int
	epoch int
}

func (d Delta) String() string {
	return fmt.Sprintf("index=%d size=%d", d.Index, d.Size)
}

// ApplyResult describes what happened to a resolved delta page.
type ApplyResult int

const (
	// DeltaAppended means the page was merged into the cache.
	DeltaAppended ApplyResult = iota
	// DeltaStaleEpoch means a restart happened while the page was in flight.
	DeltaStaleEpoch
	// DeltaStaleIndex means the cache moved past the page's index.
	DeltaStaleIndex
)

func (r ApplyResult) String() string {
	switch r {
	case DeltaAppended:
		return "appended"
	case DeltaStaleEpoch:
		return "stale_epoch"
	case DeltaStaleIndex:
		return "stale_index"
	default:
		return "unknown"
	}
}

// LogCache holds the finished entries of the current run epoch.
type LogCache struct {
	data     []string
	epoch    int
	inFlight bool
}

// Len returns the number of cached entries.
func (c *LogCache) Len() int {
	return len(c.data)
}

// Entries returns a copy of the cached entries.
func (c *LogCache) Entries() []string {
	return cloneStrings(c.data)
}

// InFlight reports whether a delta fetch is outstanding.
func (c *LogCache) InFlight() bool {
	return c.inFlight
}

// Delta computes the unseen slice for finishedCount. It returns false when
// nothing is missing.
func (c *LogCache) Delta(finishedCount int) (Delta, bool) {
	if finishedCount <= len(c.data) {
		return Delta{}, false
	}
	return Delta{Index: len(c.data), Size: finishedCount - len(c.data), epoch: c.epoch}, true
}

// Begin marks d as outstanding. It returns false when another delta is in flight.
func (c *LogCache) Begin(d Delta) bool {
	if c.inFlight || d.epoch != c.epoch {
		return false
	}
	c.inFlight = true
	return true
}

// Apply merges a resolved page for d.
func (c *LogCache) Apply(d Delta, page []string) ApplyResult {
	if d.epoch != c.epoch {
		return DeltaStaleEpoch
	}
	c.inFlight = false
	if d.Index != len(c.data) {
		return DeltaStaleIndex
	}
	if len(page) > d.Size {
		page = page[:d.Size]
	}
	c.data = append(c.data, page...)
	return DeltaAppended
}

// Fail clears the outstanding mark for d; the cached entries are unchanged.
func (c *LogCache) Fail(d Delta) {
	if d.epoch == c.epoch {
		c.inFlight = false
	}
}

// Reset drops all entries for a new run epoch. Outstanding deltas become stale.
func (c *LogCache) Reset() {
	c.data = nil
	c.epoch++
	c.inFlight = false
}
