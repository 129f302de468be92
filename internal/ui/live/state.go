package live

import (
	"time"

	"migwatch/internal/poll"
)

// State captures what the live UI shows between snapshots.
type State struct {
	Poll poll.State
	// Appended is the number of finished entries added by the last snapshot.
	Appended  int
	Snapshots int
	LastEvent string
	EventAt   time.Time
}
