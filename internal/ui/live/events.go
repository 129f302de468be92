package live

import "migwatch/internal/poll"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventSnapshot delivers a new poll state.
	EventSnapshot EventKind = iota
	// EventDeltaError reports a failed finished-page fetch.
	EventDeltaError
	// EventAction reports the outcome of an operator action.
	EventAction
)

// Event carries a UI update payload.
type Event struct {
	Kind   EventKind
	State  poll.State
	Delta  poll.Delta
	Action string
	Err    error
}
