package live

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"migwatch/internal/poll"
)

const (
	defaultWidth     = 100
	defaultHeight    = 30
	minLogHeight     = 3
	actionTimeout    = 10 * time.Second
	defaultTickEvery = time.Second
)

// SubmitFunc posts an operator action.
type SubmitFunc func(ctx context.Context, action string) error

// Options configures the live UI model.
type Options struct {
	Title           string
	NoColor         bool
	TickInterval    time.Duration
	ScrollTolerance int
	Controls        []ControlSpec
	Submit          SubmitFunc
}

// Model renders a live console UI using Bubble Tea.
type Model struct {
	state        State
	vp           viewport.Model
	anchor       scrollAnchor
	spinner      spinner.Model
	help         help.Model
	keys         keyMap
	buttons      buttonSet
	governor     *poll.Governor
	submit       SubmitFunc
	events       <-chan Event
	tickInterval time.Duration
	now          time.Time
	title        string
	noColor      bool
	width        int
	height       int
}

// NewModel constructs a live UI model for an event stream.
func NewModel(events <-chan Event, opts Options) Model {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = defaultTickEvery
	}
	buttons := make(buttonSet, 0, len(opts.Controls))
	for _, spec := range opts.Controls {
		buttons = append(buttons, newButton(spec))
	}
	vp := viewport.New(defaultWidth, minLogHeight)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	if !opts.NoColor {
		sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	}
	title := opts.Title
	if title == "" {
		title = "migwatch"
	}
	m := Model{
		state:        State{Poll: poll.NewState(poll.DefaultFast)},
		vp:           vp,
		anchor:       newScrollAnchor(opts.ScrollTolerance),
		spinner:      sp,
		help:         help.New(),
		keys:         defaultKeyMap(buttons),
		buttons:      buttons,
		governor:     poll.NewGovernor(buttons.bindings()),
		submit:       opts.Submit,
		events:       events,
		tickInterval: tickInterval,
		now:          time.Now(),
		title:        title,
		noColor:      opts.NoColor,
		width:        defaultWidth,
		height:       defaultHeight,
	}
	m.governor.Update(m.state.Poll.Running, m.buttons)
	return m.layout()
}

// Init starts ticking and waits for the first event.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick(m.tickInterval), m.spinner.Tick)
}

// Update consumes UI events, key presses and timer ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.help.Width = typed.Width
		m.anchor.capture(m.vp)
		m = m.layout()
		m.anchor.restore(&m.vp)
		return m, nil
	case EventMsg:
		m = applyEvent(m, typed.Event)
		return m, waitForEvent(m.events)
	case actionMsg:
		m.state = Reduce(m.state, Event{Kind: EventAction, Action: typed.action, Err: typed.err}, m.now)
		return m.relayout(), nil
	case tickMsg:
		m.now = time.Time(typed)
		return m, tick(m.tickInterval)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

// handleKey routes key presses to navigation, help or operator controls.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.relayout(), nil
	case key.Matches(msg, m.keys.Top):
		m.vp.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.vp.GotoBottom()
		return m, nil
	}
	if b := m.buttons.match(msg.String()); b != nil {
		return m.press(b)
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// press submits a control's action when the governor allows it.
func (m Model) press(b *button) (tea.Model, tea.Cmd) {
	if b.disabled || !m.governor.Allowed(b.spec.Name) {
		m.state.LastEvent = formatRefused(b.spec.Label, m.state.Poll.Running)
		m.state.EventAt = m.now
		return m.relayout(), nil
	}
	if m.submit == nil {
		m.state.LastEvent = b.spec.Label + " is not available"
		m.state.EventAt = m.now
		return m.relayout(), nil
	}
	m.state.LastEvent = "Sending " + b.spec.Action + "..."
	m.state.EventAt = m.now
	return m.relayout(), submitAction(m.submit, b.spec.Action)
}

// View renders the live UI.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTop(), m.vp.View(), m.renderBottom())
}

func (m Model) renderTop() string {
	parts := []string{renderHeader(m.title, m.state, m.spinner.View(), m.now, m.noColor)}
	for _, name := range []string{poll.SectionStatus, poll.SectionInstrument, poll.SectionActive, poll.SectionErrors} {
		if section := renderSection(name, m.state.Poll.Section(name), m.noColor); section != "" {
			parts = append(parts, section)
		}
	}
	parts = append(parts, renderFinishedTitle(m.state, m.vp, m.noColor))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderBottom() string {
	parts := []string{renderControls(m.buttons, m.noColor)}
	if footer := renderFooter(m.state, m.noColor); footer != "" {
		parts = append(parts, footer)
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// layout sizes the log viewport to the space left by the other sections.
func (m Model) layout() Model {
	used := lipgloss.Height(m.renderTop()) + lipgloss.Height(m.renderBottom())
	m.vp.Width = max(m.width, 1)
	m.vp.Height = max(m.height-used, minLogHeight)
	return m
}

// relayout is layout for a model whose log may already be showing its last
// line. Such a log keeps showing it when the viewport shrinks.
func (m Model) relayout() Model {
	pinned := m.vp.AtBottom()
	m = m.layout()
	if pinned {
		m.vp.GotoBottom()
	}
	return m
}

// EventMsg wraps a UI event for Bubble Tea.
type EventMsg struct {
	Event Event
}

// tickMsg carries a clock tick for updates.
type tickMsg time.Time

// actionMsg carries the result of a submitted action.
type actionMsg struct {
	action string
	err    error
}

// waitForEvent blocks until a UI event is available.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event}
	}
}

// tick emits a periodic tick message.
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// submitAction runs submit off the UI loop.
func submitAction(submit SubmitFunc, action string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return actionMsg{action: action, err: submit(ctx, action)}
	}
}

// applyEvent folds a UI event into the model, keeping the log anchored.
func applyEvent(m Model, event Event) Model {
	if event.Kind != EventSnapshot {
		m.state = Reduce(m.state, event, m.now)
		return m.relayout()
	}
	prev := m.state.Poll
	first := m.state.Snapshots == 0
	event.State.WasAtBottom = m.anchor.capture(m.vp)
	m.state = Reduce(m.state, event, m.now)
	m.governor.Update(m.state.Poll.Running, m.buttons)
	m = m.relayout()
	if first || finishedChanged(prev, m.state.Poll) {
		m.vp.SetContent(renderFinished(m.state.Poll.FinishedData, m.noColor))
		m.anchor.restore(&m.vp)
	}
	return m
}
