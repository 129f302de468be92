package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"migwatch/pkg/statusclient"
)

var (
	// ErrRunning is returned when Start is called on a running job.
	ErrRunning = errors.New("job already running")
	// ErrIdle is returned when Abort is called on an idle job.
	ErrIdle = errors.New("job not running")
)

// Job is a simulated content migration that copies one AU per step.
type Job struct {
	mu        sync.Mutex
	aus       []string
	nowFn     func() time.Time
	running   bool
	next      int
	finished  []string
	errors    []string
	startTime int64
	totals    counters
}

type counters struct {
	urls         int64
	urlsSkipped  int64
	versions     int64
	versionsSkip int64
	bytes        int64
}

// NewJob builds an idle job over the given AU names.
func NewJob(aus []string, now func() time.Time) *Job {
	if now == nil {
		now = time.Now
	}
	return &Job{aus: append([]string(nil), aus...), nowFn: now}
}

// Start begins a new run. Each run carries a start time distinct from the
// previous one.
func (j *Job) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return ErrRunning
	}
	start := j.nowFn().UnixMilli()
	if start <= j.startTime {
		start = j.startTime + 1
	}
	j.startTime = start
	j.running = len(j.aus) > 0
	j.next = 0
	j.finished = nil
	j.errors = nil
	j.totals = counters{}
	return nil
}

// Abort stops the current run, keeping its finished entries.
func (j *Job) Abort() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return ErrIdle
	}
	j.running = false
	j.errors = append(j.errors, fmt.Sprintf("Aborted after %d of %d AUs", j.next, len(j.aus)))
	return nil
}

// Step copies the next AU and reports whether the job is still running.
func (j *Job) Step() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return false
	}
	if j.next < len(j.aus) {
		c := auCounters(j.next)
		j.finished = append(j.finished, auStatusLine(j.aus[j.next], c))
		j.totals.add(c)
		j.next++
	}
	if j.next >= len(j.aus) {
		j.running = false
	}
	return j.running
}

// Summary reports the job as the status endpoint returns it.
func (j *Job) Summary() statusclient.Summary {
	j.mu.Lock()
	defer j.mu.Unlock()
	summary := statusclient.Summary{
		Running:        j.running,
		InstrumentList: []string{"Total: " + countersLine(j.totals)},
		ActiveList:     []string{},
		FinishedCount:  len(j.finished),
		Errors:         append([]string{}, j.errors...),
		StartTime:      j.startTime,
	}
	switch {
	case j.running:
		summary.StatusList = []string{fmt.Sprintf("Copying AU %d of %d", j.next+1, len(j.aus))}
		summary.ActiveList = []string{j.aus[j.next] + ": copying"}
	case j.startTime == 0:
		summary.StatusList = []string{"Idle"}
	default:
		summary.StatusList = []string{fmt.Sprintf("Finished: %d of %d AUs copied", j.next, len(j.aus))}
	}
	return summary
}

// Finished returns up to size entries starting at index.
func (j *Job) Finished(index, size int) []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if index < 0 || size <= 0 || index >= len(j.finished) {
		return []string{}
	}
	end := index + size
	if end > len(j.finished) {
		end = len(j.finished)
	}
	return append([]string{}, j.finished[index:end]...)
}

func (c *counters) add(o counters) {
	c.urls += o.urls
	c.urlsSkipped += o.urlsSkipped
	c.versions += o.versions
	c.versionsSkip += o.versionsSkip
	c.bytes += o.bytes
}

// auCounters derives deterministic counts for the AU at position i.
func auCounters(i int) counters {
	n := int64(i + 1)
	return counters{
		urls:         n * 10,
		urlsSkipped:  n % 3,
		versions:     n * 12,
		versionsSkip: n % 2,
		bytes:        n * 4096,
	}
}

func auStatusLine(au string, c counters) string {
	return au + ": " + countersLine(c)
}

func countersLine(c counters) string {
	return fmt.Sprintf("%s copied, %d skipped, %s copied, %d skipped, %s copied",
		units(c.urls, "URL"), c.urlsSkipped,
		units(c.versions, "version"), c.versionsSkip,
		units(c.bytes, "byte"))
}

func units(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Run steps the job every interval until ctx ends.
func (j *Job) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Step()
		}
	}
}
