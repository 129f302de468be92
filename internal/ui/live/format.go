package live

import (
	"strconv"
	"strings"
	"time"

	"migwatch/internal/poll"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// sectionTitle capitalizes a section name for display.
func sectionTitle(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// formatDelay renders a poll interval in seconds.
func formatDelay(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(100 * time.Millisecond).String()
}

// formatStartTime renders the job start marker, which the server reports in
// epoch milliseconds.
func formatStartTime(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}

// formatAge renders how long ago a snapshot was applied.
func formatAge(at, now time.Time) string {
	if at.IsZero() || now.Before(at) {
		return ""
	}
	return now.Sub(at).Round(time.Second).String() + " ago"
}

// formatPercent renders a scroll fraction.
func formatPercent(fraction float64) string {
	return strconv.Itoa(int(fraction*100+0.5)) + "%"
}

// formatDeltaError formats a failed finished-page fetch.
func formatDeltaError(delta poll.Delta, err error) string {
	msg := "finished page " + delta.String() + " failed"
	if err != nil {
		msg += ": " + err.Error()
	}
	return msg
}

// formatAction formats the outcome of an operator action.
func formatAction(action string, err error) string {
	if err != nil {
		return action + " failed: " + err.Error()
	}
	return action + " submitted"
}

// formatRestart formats a detected job restart.
func formatRestart(epoch int, startTime int64) string {
	return "job restarted (restart " + fmtInt(epoch) + ", started " + formatStartTime(startTime) + ")"
}

// formatRunning formats a run state transition.
func formatRunning(running bool) string {
	if running {
		return "job started"
	}
	return "job finished"
}

// formatRefused explains why a control press was ignored.
func formatRefused(label string, running bool) string {
	if running {
		return label + " is disabled while the job is running"
	}
	return label + " is disabled while the job is idle"
}
