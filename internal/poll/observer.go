package poll

// Observer receives state published by a Session.
//
// Calls are made while the session holds its lock so snapshots arrive in the
// order they were applied. Implementations must not block or call back into
// the Session.
type Observer interface {
	// OnSnapshot delivers a deep copy of the state after each applied update.
	OnSnapshot(state State)
	// OnDeltaError reports a failed finished-page fetch. The cache is unchanged.
	OnDeltaError(delta Delta, err error)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

// OnSnapshot implements Observer.
func (NopObserver) OnSnapshot(State) {}

// OnDeltaError implements Observer.
func (NopObserver) OnDeltaError(Delta, error) {}
