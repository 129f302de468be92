package plain

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"golang.org/x/term"

	"migwatch/internal/poll"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiGray  = "\x1b[90m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[34m"
)

type lineStyle int

const (
	styleDefault lineStyle = iota
	styleState
	styleFinished
	styleError
)

// Printer writes one line per change in the poll state. It implements
// poll.Observer and is safe for concurrent use.
type Printer struct {
	mu         sync.Mutex
	w          io.Writer
	palette    palette
	started    bool
	last       poll.State
	printed    int
	seenErrors map[string]struct{}
}

// New constructs a Printer writing to w.
func New(w io.Writer, noColor bool) *Printer {
	return &Printer{
		w:          w,
		palette:    paletteFor(w, noColor),
		seenErrors: make(map[string]struct{}),
	}
}

// OnSnapshot implements poll.Observer.
func (p *Printer) OnSnapshot(state poll.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.last
	first := !p.started
	p.started = true
	p.last = state

	if !first && state.Epoch != prev.Epoch {
		p.printed = 0
		p.seenErrors = make(map[string]struct{})
		p.line("restart", styleState, "job restarted, start time %d", state.StartTime)
	}
	if !first && !state.FetchError && !prev.FetchError && state.Running != prev.Running {
		if state.Running {
			p.line("state", styleState, "job running")
		} else {
			p.line("state", styleState, "job idle")
		}
	}
	if first || !slices.Equal(state.StatusList, prev.StatusList) {
		for _, line := range state.StatusList {
			style := styleDefault
			if state.FetchError && line == poll.FetchFailedLine {
				style = styleError
			}
			p.line("status", style, "%s", line)
		}
	}
	if !slices.Equal(state.ActiveList, prev.ActiveList) && len(state.ActiveList) > 0 {
		p.line("active", styleDefault, "%s", strings.Join(state.ActiveList, ", "))
	}
	for _, e := range state.Errors {
		if _, ok := p.seenErrors[e]; ok {
			continue
		}
		p.seenErrors[e] = struct{}{}
		p.line("error", styleError, "%s", e)
	}
	if p.printed > len(state.FinishedData) {
		p.printed = len(state.FinishedData)
	}
	for _, entry := range state.FinishedData[p.printed:] {
		p.line("finished", styleFinished, "%s", entry)
	}
	p.printed = len(state.FinishedData)
}

// OnDeltaError implements poll.Observer.
func (p *Printer) OnDeltaError(delta poll.Delta, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line("warn", styleError, "finished page %s failed: %v", delta, err)
}

// Printed returns how many finished entries have been written.
func (p *Printer) Printed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printed
}

func (p *Printer) line(tag string, style lineStyle, format string, args ...any) {
	if p.w == nil {
		return
	}
	text := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.w, "%s %s\n", p.palette.prefix("["+tag+"]"), p.palette.apply(style, text))
}

type palette struct {
	enabled bool
}

func paletteFor(w io.Writer, noColor bool) palette {
	if noColor {
		return palette{enabled: false}
	}
	return palette{enabled: shouldUseStyling(w)}
}

func shouldUseStyling(w io.Writer) bool {
	if w == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func (p palette) prefix(text string) string {
	if !p.enabled {
		return text
	}
	return ansiDim + ansiGray + text + ansiReset
}

func (p palette) apply(style lineStyle, text string) string {
	if !p.enabled {
		return text
	}
	switch style {
	case styleState:
		return ansiBold + ansiBlue + text + ansiReset
	case styleFinished:
		return ansiGreen + text + ansiReset
	case styleError:
		return ansiBold + ansiRed + text + ansiReset
	default:
		return text
	}
}
