package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"migwatch/internal/poll"
)

// eventBuffer bounds the snapshots queued for the UI. Each snapshot carries
// the full state, so a dropped one is superseded by the next.
const eventBuffer = 256

// Controller runs the live UI and implements poll.Observer.
type Controller struct {
	mu      sync.Mutex
	closed  bool
	events  chan Event
	program *tea.Program
	done    chan struct{}
	err     error
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, eventBuffer)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, err := program.Run()
		controller.mu.Lock()
		controller.err = err
		controller.mu.Unlock()
		controller.Close()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop. Later notifications are dropped.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}

// Done is closed once the UI has exited, including when the operator quits.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the UI has exited and returns its error.
func (c *Controller) Wait() error {
	if c == nil {
		return nil
	}
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// OnSnapshot forwards poll state to the UI.
func (c *Controller) OnSnapshot(state poll.State) {
	c.send(Event{Kind: EventSnapshot, State: state})
}

// OnDeltaError forwards finished-page failures to the UI.
func (c *Controller) OnDeltaError(delta poll.Delta, err error) {
	c.send(Event{Kind: EventDeltaError, Delta: delta, Err: err})
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
