package poll

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"migwatch/pkg/statusclient"
)

// Fetcher retrieves the summary and finished pages of one operation.
type Fetcher interface {
	FetchSummary(ctx context.Context) (statusclient.Summary, error)
	FetchFinished(ctx context.Context, index, size int) ([]string, error)
}

// Submitter posts operator actions. Fetchers may optionally implement it.
type Submitter interface {
	Submit(ctx context.Context, action string) error
}

// ErrSessionStopped is returned for calls made after Stop.
var ErrSessionStopped = errors.New("session stopped")

// Options configures a Session.
type Options struct {
	Fast      time.Duration
	Slow      time.Duration
	Observer  Observer
	Logger    *slog.Logger
	SessionID string
	Now       func() time.Time
}

// Session runs poll cycles against a Fetcher and owns the resulting State.
type Session struct {
	id       string
	fetcher  Fetcher
	fast     time.Duration
	slow     time.Duration
	observer Observer
	logger   *slog.Logger
	nowFn    func() time.Time
	clock    *Clock

	mu      sync.Mutex
	state   State
	tracker EpochTracker
	cache   LogCache
	started bool
	alive   bool
	ctx     context.Context
	cancel  context.CancelFunc
	issued  uint64
	applied uint64
	wg      sync.WaitGroup
}

// NewSession constructs a session in the mounted placeholder state.
func NewSession(fetcher Fetcher, opts Options) *Session {
	fast := opts.Fast
	if fast <= 0 {
		fast = DefaultFast
	}
	slow := opts.Slow
	if slow <= 0 {
		slow = DefaultSlow
	}
	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	observer := opts.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Session{
		id:       id,
		fetcher:  fetcher,
		fast:     fast,
		slow:     slow,
		observer: observer,
		logger:   logger.With("component", "poll", "session", id),
		nowFn:    nowFn,
		clock:    NewClock(),
		state:    NewState(fast),
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Start mounts the session and polls immediately. Cancelling ctx stops it.
func (s *Session) Start(ctx context.Context) error {
	if s.fetcher == nil {
		return errors.New("poll: fetcher is nil")
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("poll: session already started")
	}
	s.started = true
	s.alive = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	runCtx := s.ctx
	s.observer.OnSnapshot(s.state.Clone())
	s.mu.Unlock()

	s.logger.Info("session started", "fast", s.fast, "slow", s.slow)
	s.clock.Start(s.tick, 0)
	go func() {
		<-runCtx.Done()
		s.Stop()
	}()
	return nil
}

// Stop unmounts the session. In-flight responses are discarded. Safe to call repeatedly.
func (s *Session) Stop() {
	s.clock.Stop()
	s.mu.Lock()
	if !s.alive {
		s.mu.Unlock()
		return
	}
	s.alive = false
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.logger.Info("session stopped")
}

// Wait blocks until all issued cycles have returned.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Submit forwards an operator action when the fetcher supports it.
func (s *Session) Submit(ctx context.Context, action string) error {
	s.mu.Lock()
	alive := s.alive
	s.mu.Unlock()
	if !alive {
		return ErrSessionStopped
	}
	submitter, ok := s.fetcher.(Submitter)
	if !ok {
		return errors.New("poll: fetcher does not accept actions")
	}
	if err := submitter.Submit(ctx, action); err != nil {
		s.logger.Warn("action failed", "action", action, "err", err)
		return err
	}
	s.logger.Info("action submitted", "action", action)
	return nil
}

// tick issues one cycle and waits for it at most the current delay, so a slow
// response lets the next cycle start. It returns the delay for the next tick;
// when the cycle is still in flight the time already waited counts toward it.
func (s *Session) tick() time.Duration {
	s.mu.Lock()
	if !s.alive {
		s.mu.Unlock()
		return s.slow
	}
	s.issued++
	seq := s.issued
	ctx := s.ctx
	wait := s.state.Delay
	s.wg.Add(1)
	s.mu.Unlock()

	issuedAt := time.Now()
	done := make(chan struct{})
	go func() {
		defer s.wg.Done()
		defer close(done)
		s.runCycle(ctx, seq)
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		s.logger.Debug("cycle still in flight at next tick", "seq", seq)
		return max(s.currentDelay()-time.Since(issuedAt), 0)
	case <-ctx.Done():
	}
	return s.currentDelay()
}

// runCycle performs the summary request and, when needed, one delta fetch.
func (s *Session) runCycle(ctx context.Context, seq uint64) {
	summary, err := s.fetcher.FetchSummary(ctx)
	delta, ok := s.applySummary(ctx, seq, summary, err)
	if !ok {
		return
	}
	page, err := s.fetcher.FetchFinished(ctx, delta.Index, delta.Size)
	s.applyDelta(ctx, delta, page, err)
}

// applySummary folds one summary response into the state and returns the
// delta to fetch, if any.
func (s *Session) applySummary(ctx context.Context, seq uint64, summary statusclient.Summary, fetchErr error) (Delta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.liveLocked(ctx) {
		s.logger.Debug("discarding summary after stop", "seq", seq)
		return Delta{}, false
	}
	if seq < s.applied {
		s.logger.Debug("dropping stale summary", "seq", seq, "applied", s.applied)
		return Delta{}, false
	}
	s.applied = seq
	s.state.Seq = seq
	s.state.UpdatedAt = s.nowFn()

	if fetchErr != nil {
		s.state.FetchError = true
		s.state.StatusList = []string{FetchFailedLine}
		s.state.Delay = s.slow
		s.logger.Warn("status fetch failed", "seq", seq, "err", fetchErr)
		s.observer.OnSnapshot(s.state.Clone())
		return Delta{}, false
	}

	if s.tracker.Observe(summary.StartTime) {
		s.logger.Info("job restarted", "previous_start", s.state.StartTime, "start", summary.StartTime, "discarded", s.cache.Len())
		s.cache.Reset()
		s.state.FinishedData = nil
		s.state.FinishedCount = 0
	}

	s.state.FetchError = false
	s.state.Running = summary.Running
	s.state.StatusList = cloneStrings(summary.StatusList)
	s.state.InstrumentList = cloneStrings(summary.InstrumentList)
	s.state.ActiveList = cloneStrings(summary.ActiveList)
	s.state.Errors = cloneStrings(summary.Errors)
	s.state.FinishedCount = summary.FinishedCount
	s.state.StartTime = summary.StartTime
	s.state.Epoch = s.tracker.Epoch()
	s.state.FinishedData = s.cache.Entries()
	if summary.Running {
		s.state.Delay = s.fast
	} else {
		s.state.Delay = s.slow
	}
	if summary.FinishedCount < s.cache.Len() {
		s.logger.Warn("finished count below cached entries", "count", summary.FinishedCount, "cached", s.cache.Len())
	}

	delta, need := s.cache.Delta(summary.FinishedCount)
	if need && !s.cache.Begin(delta) {
		s.logger.Debug("delta already in flight", "delta", delta.String())
		need = false
	}
	s.observer.OnSnapshot(s.state.Clone())
	return delta, need
}

// applyDelta merges a resolved finished page.
func (s *Session) applyDelta(ctx context.Context, delta Delta, page []string, fetchErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.liveLocked(ctx) {
		s.logger.Debug("discarding finished page after stop", "delta", delta.String())
		return
	}
	if fetchErr != nil {
		s.cache.Fail(delta)
		s.logger.Warn("finished page fetch failed", "delta", delta.String(), "err", fetchErr)
		s.observer.OnDeltaError(delta, fetchErr)
		return
	}
	result := s.cache.Apply(delta, page)
	if result != DeltaAppended {
		s.logger.Info("discarding finished page", "delta", delta.String(), "reason", result.String())
		return
	}
	s.state.FinishedData = s.cache.Entries()
	s.state.UpdatedAt = s.nowFn()
	s.observer.OnSnapshot(s.state.Clone())
}

func (s *Session) currentDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Delay
}

// liveLocked reports whether results may still be applied. Callers hold s.mu.
func (s *Session) liveLocked(ctx context.Context) bool {
	return s.alive && ctx.Err() == nil
}
