package live

import (
	"time"

	"migwatch/internal/poll"
)

// Reduce applies a UI event to the UI state.
func Reduce(state State, event Event, now time.Time) State {
	switch event.Kind {
	case EventSnapshot:
		return applySnapshot(state, event.State, now)
	case EventDeltaError:
		state.LastEvent = formatDeltaError(event.Delta, event.Err)
		state.EventAt = now
	case EventAction:
		state.LastEvent = formatAction(event.Action, event.Err)
		state.EventAt = now
	}
	return state
}

// applySnapshot replaces the poll state and records what changed.
func applySnapshot(state State, next poll.State, now time.Time) State {
	prev := state.Poll
	state.Snapshots++
	state.Appended = 0
	switch {
	case next.Epoch != prev.Epoch:
		state.Appended = len(next.FinishedData)
		state.LastEvent = formatRestart(next.Epoch, next.StartTime)
		state.EventAt = now
	case len(next.FinishedData) > len(prev.FinishedData):
		state.Appended = len(next.FinishedData) - len(prev.FinishedData)
	}
	if next.Running != prev.Running && state.Snapshots > 1 && !next.FetchError {
		state.LastEvent = formatRunning(next.Running)
		state.EventAt = now
	}
	state.Poll = next
	return state
}

// finishedChanged reports whether the finished log differs between two states.
func finishedChanged(prev, next poll.State) bool {
	return prev.Epoch != next.Epoch || len(prev.FinishedData) != len(next.FinishedData)
}
