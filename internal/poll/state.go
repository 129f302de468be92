package poll

import "time"

// Default polling intervals.
const (
	DefaultFast = 1000 * time.Millisecond
	DefaultSlow = 5000 * time.Millisecond
)

// Placeholder lines shown before the first summary and after a failed fetch.
const (
	WaitingStatusLine = "Waiting for status..."
	FetchFailedLine   = "Could not fetch status information"
)

// State is the poll state a watch session owns.
type State struct {
	Running        bool
	FetchError     bool
	StatusList     []string
	InstrumentList []string
	ActiveList     []string
	Errors         []string
	FinishedCount  int
	FinishedData   []string
	StartTime      int64
	Delay          time.Duration
	WasAtBottom    bool

	// Epoch counts restarts seen during this session.
	Epoch int
	// Seq is the summary sequence number that produced this state.
	Seq       uint64
	UpdatedAt time.Time
}

// NewState returns the placeholder state shown when a view mounts.
func NewState(fast time.Duration) State {
	return State{
		Running:    false,
		FetchError: true,
		StatusList: []string{WaitingStatusLine},
		Delay:      fast,
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s State) Clone() State {
	out := s
	out.StatusList = cloneStrings(s.StatusList)
	out.InstrumentList = cloneStrings(s.InstrumentList)
	out.ActiveList = cloneStrings(s.ActiveList)
	out.Errors = cloneStrings(s.Errors)
	out.FinishedData = cloneStrings(s.FinishedData)
	return out
}

// Section returns one of the named view sections.
func (s State) Section(name string) []string {
	switch name {
	case SectionStatus:
		return s.StatusList
	case SectionInstrument:
		return s.InstrumentList
	case SectionActive:
		return s.ActiveList
	case SectionErrors:
		return s.Errors
	case SectionFinished:
		return s.FinishedData
	default:
		return nil
	}
}

// Named view sections exposed to renderers.
const (
	SectionStatus     = "status"
	SectionInstrument = "instrument"
	SectionActive     = "active"
	SectionErrors     = "errors"
	SectionFinished   = "finished"
)

// Sections lists the view sections in display order.
var Sections = []string{SectionStatus, SectionInstrument, SectionActive, SectionErrors, SectionFinished}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
