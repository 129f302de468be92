package poll

import "testing"

// TestEpochTrackerDetectsRestart covers first observation, repeats and changes.
func TestEpochTrackerDetectsRestart(t *testing.T) {
	var tracker EpochTracker
	if _, ok := tracker.StartTime(); ok {
		t.Fatalf("expected no start time before first observation")
	}
	if tracker.Observe(100) {
		t.Fatalf("first observation must not be a restart")
	}
	if tracker.Observe(100) {
		t.Fatalf("same start time must not be a restart")
	}
	if !tracker.Observe(200) {
		t.Fatalf("expected restart on new start time")
	}
	if tracker.Epoch() != 1 {
		t.Fatalf("expected epoch 1, got %d", tracker.Epoch())
	}
	if start, _ := tracker.StartTime(); start != 200 {
		t.Fatalf("expected start 200, got %d", start)
	}
}

// TestLogCacheDeltaBounds verifies the delta covers exactly the unseen entries.
func TestLogCacheDeltaBounds(t *testing.T) {
	var cache LogCache
	d, ok := cache.Delta(3)
	if !ok || d.Index != 0 || d.Size != 3 {
		t.Fatalf("unexpected initial delta %s ok=%v", d, ok)
	}
	cache.Begin(d)
	cache.Apply(d, []string{"a", "b", "c"})

	d, ok = cache.Delta(7)
	if !ok || d.Index != 3 || d.Size != 4 {
		t.Fatalf("expected index=3 size=4, got %s", d)
	}
	if _, ok := cache.Delta(3); ok {
		t.Fatalf("expected no delta when nothing is missing")
	}
	if _, ok := cache.Delta(1); ok {
		t.Fatalf("expected no delta when count is below cached length")
	}
}

// TestLogCacheApply covers appends, truncation and staleness.
func TestLogCacheApply(t *testing.T) {
	t.Run("truncates long page", func(t *testing.T) {
		var cache LogCache
		d, _ := cache.Delta(2)
		cache.Begin(d)
		if res := cache.Apply(d, []string{"a", "b", "c"}); res != DeltaAppended {
			t.Fatalf("expected appended, got %s", res)
		}
		if cache.Len() != 2 {
			t.Fatalf("expected 2 entries, got %d", cache.Len())
		}
	})
	t.Run("short page appended as is", func(t *testing.T) {
		var cache LogCache
		d, _ := cache.Delta(4)
		cache.Begin(d)
		cache.Apply(d, []string{"a"})
		if cache.Len() != 1 {
			t.Fatalf("expected 1 entry, got %d", cache.Len())
		}
		next, ok := cache.Delta(4)
		if !ok || next.Index != 1 || next.Size != 3 {
			t.Fatalf("expected remaining delta, got %s", next)
		}
	})
	t.Run("stale epoch discarded", func(t *testing.T) {
		var cache LogCache
		d, _ := cache.Delta(2)
		cache.Begin(d)
		cache.Reset()
		if res := cache.Apply(d, []string{"a", "b"}); res != DeltaStaleEpoch {
			t.Fatalf("expected stale epoch, got %s", res)
		}
		if cache.Len() != 0 {
			t.Fatalf("expected empty cache, got %v", cache.Entries())
		}
	})
	t.Run("stale index discarded", func(t *testing.T) {
		var cache LogCache
		d, _ := cache.Delta(2)
		cache.Begin(d)
		cache.Apply(d, []string{"a", "b"})
		if res := cache.Apply(d, []string{"a", "b"}); res != DeltaStaleIndex {
			t.Fatalf("expected stale index, got %s", res)
		}
		if cache.Len() != 2 {
			t.Fatalf("expected duplicate page to be ignored, got %v", cache.Entries())
		}
	})
}

// TestLogCacheSingleFlight verifies only one delta is outstanding at a time.
func TestLogCacheSingleFlight(t *testing.T) {
	var cache LogCache
	d, _ := cache.Delta(2)
	if !cache.Begin(d) {
		t.Fatalf("expected first begin to succeed")
	}
	if cache.Begin(d) {
		t.Fatalf("expected second begin to be refused")
	}
	cache.Fail(d)
	if cache.InFlight() {
		t.Fatalf("expected fail to clear in-flight mark")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected failure to leave entries unchanged")
	}
	if !cache.Begin(d) {
		t.Fatalf("expected begin after failure to succeed")
	}
}
