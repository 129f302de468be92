package poll

// EpochTracker detects job restarts from the start-time marker of each summary.
type EpochTracker struct {
	seen      bool
	startTime int64
	epoch     int
}

// Observe records startTime and reports whether it begins a new run.
// The first observation never counts as a restart.
func (t *EpochTracker) Observe(startTime int64) bool {
	if !t.seen {
		t.seen = true
		t.startTime = startTime
		return false
	}
	if startTime == t.startTime {
		return false
	}
	t.startTime = startTime
	t.epoch++
	return true
}

// Epoch returns the number of restarts observed so far.
func (t *EpochTracker) Epoch() int {
	return t.epoch
}

// StartTime returns the last observed marker and whether one was seen.
func (t *EpochTracker) StartTime() (int64, bool) {
	return t.startTime, t.seen
}
