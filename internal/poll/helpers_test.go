package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"migwatch/internal/testutil"
	"migwatch/pkg/statusclient"
)

type summaryReply struct {
	summary statusclient.Summary
	err     error
}

// fakeFetcher replays scripted summaries and serves finished pages from a log.
type fakeFetcher struct {
	mu            sync.Mutex
	replies       []summaryReply
	log           []string
	finishedErr   error
	summaryCalls  int
	finishedCalls []Delta
	actions       []string
}

func (f *fakeFetcher) FetchSummary(ctx context.Context) (statusclient.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls++
	if len(f.replies) == 0 {
		return statusclient.Summary{}, errors.New("no scripted reply")
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply.summary, reply.err
}

func (f *fakeFetcher) FetchFinished(ctx context.Context, index, size int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishedCalls = append(f.finishedCalls, Delta{Index: index, Size: size})
	if f.finishedErr != nil {
		return nil, f.finishedErr
	}
	end := index + size
	if end > len(f.log) {
		end = len(f.log)
	}
	if index >= end {
		return nil, nil
	}
	return append([]string(nil), f.log[index:end]...), nil
}

func (f *fakeFetcher) Submit(ctx context.Context, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeFetcher) script(replies ...summaryReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = replies
}

func (f *fakeFetcher) calls() (int, []Delta) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summaryCalls, append([]Delta(nil), f.finishedCalls...)
}

// recorder is an Observer that keeps every snapshot.
type recorder struct {
	mu          sync.Mutex
	snapshots   []State
	deltaErrors []error
}

func (r *recorder) OnSnapshot(state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, state)
}

func (r *recorder) OnDeltaError(_ Delta, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deltaErrors = append(r.deltaErrors, err)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func (r *recorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.snapshots...)
}

func running(count int, start int64, status ...string) summaryReply {
	return summaryReply{summary: statusclient.Summary{Running: true, FinishedCount: count, StartTime: start, StatusList: status}}
}

func idle(count int, start int64, status ...string) summaryReply {
	return summaryReply{summary: statusclient.Summary{Running: false, FinishedCount: count, StartTime: start, StatusList: status}}
}

// mountedSession returns a session marked alive without starting its clock,
// so tests can drive cycles directly.
func mountedSession(t *testing.T, f Fetcher, obs Observer) *Session {
	t.Helper()
	s := NewSession(f, Options{Fast: time.Second, Slow: 5 * time.Second, Observer: obs})
	s.ctx, s.cancel = context.WithCancel(testutil.Context(t, 0))
	s.started = true
	s.alive = true
	t.Cleanup(s.Stop)
	return s
}

func entries(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + string(rune('a'+i))
	}
	return out
}

func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx := testutil.Context(t, timeout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timed out")
	}
}
