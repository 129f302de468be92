package live

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the title line with run state and poll cadence.
func renderHeader(title string, state State, spin string, now time.Time, noColor bool) string {
	p := state.Poll
	line := title + " | "
	switch {
	case p.FetchError:
		line += "unreachable"
	case p.Running:
		line += spin + " running"
	default:
		line += "idle"
	}
	line += " | every " + formatDelay(p.Delay)
	if p.StartTime != 0 {
		line += " | started " + formatStartTime(p.StartTime)
	}
	if p.Epoch > 0 {
		line += " | restarts " + fmtInt(p.Epoch)
	}
	if age := formatAge(p.UpdatedAt, now); age != "" {
		line += " | updated " + age
	}
	color := lipgloss.Color("33")
	if p.FetchError {
		color = lipgloss.Color("196")
	}
	return stylize(line, noColor, color)
}

// renderSection renders one named list section, or nothing when it is empty.
func renderSection(name string, lines []string, noColor bool) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(stylize(sectionTitle(name), noColor, lipgloss.Color("252")))
	for _, line := range lines {
		b.WriteString("\n  ")
		b.WriteString(stylize(line, noColor, sectionColor(name)))
	}
	return b.String()
}

// renderFinishedTitle renders the finished log heading with scroll position.
func renderFinishedTitle(state State, vp viewport.Model, noColor bool) string {
	p := state.Poll
	line := sectionTitle("finished") + " (" + fmtInt(len(p.FinishedData)) + "/" + fmtInt(p.FinishedCount) + ")"
	if state.Appended > 0 {
		line += " +" + fmtInt(state.Appended)
	}
	if vp.TotalLineCount() > vp.Height {
		line += " " + formatPercent(vp.ScrollPercent())
	}
	return stylize(line, noColor, lipgloss.Color("252"))
}

// renderFinished renders the finished log content.
func renderFinished(entries []string, noColor bool) string {
	if len(entries) == 0 {
		return stylize("  (none yet)", noColor, lipgloss.Color("242"))
	}
	return strings.Join(entries, "\n")
}

// renderControls renders operator controls with their enablement.
func renderControls(buttons buttonSet, noColor bool) string {
	if len(buttons) == 0 {
		return ""
	}
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		label := "[" + b.spec.Key + "] " + b.spec.Label
		if b.spec.Key == "" {
			label = b.spec.Label
		}
		if b.disabled {
			parts = append(parts, stylize(label, noColor, lipgloss.Color("240")))
			continue
		}
		parts = append(parts, stylize(label, noColor, lipgloss.Color("42")))
	}
	return strings.Join(parts, "   ")
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func sectionColor(name string) lipgloss.Color {
	switch name {
	case "errors":
		return lipgloss.Color("196")
	case "active":
		return lipgloss.Color("39")
	default:
		return lipgloss.Color("250")
	}
}
