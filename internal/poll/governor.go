package poll

import (
	"fmt"
	"strings"
)

// Role declares how a control reacts to the run state.
type Role int

const (
	// RoleOther controls are left alone.
	RoleOther Role = iota
	// RoleStart controls are disabled while the job runs.
	RoleStart
	// RoleAbort controls are disabled while the job is idle.
	RoleAbort
)

func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleAbort:
		return "abort"
	default:
		return "other"
	}
}

// ParseRole maps a config value to a Role.
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "start":
		return RoleStart, nil
	case "abort":
		return RoleAbort, nil
	case "", "other":
		return RoleOther, nil
	default:
		return RoleOther, fmt.Errorf("unknown control role %q (expected start|abort|other)", value)
	}
}

// Control is an operator control whose enablement the Governor manages.
type Control interface {
	SetDisabled(disabled bool)
}

// ControlLookup resolves controls by name on the current view.
type ControlLookup interface {
	Control(name string) (Control, bool)
}

// ControlSet is a name-indexed ControlLookup.
type ControlSet map[string]Control

// Control implements ControlLookup.
func (s ControlSet) Control(name string) (Control, bool) {
	c, ok := s[name]
	return c, ok
}

// Binding pairs a control name with its role.
type Binding struct {
	Name string
	Role Role
}

// Governor derives control enablement from the running flag.
type Governor struct {
	bindings  []Binding
	evaluated bool
	running   bool
}

// NewGovernor constructs a governor for the given bindings.
func NewGovernor(bindings []Binding) *Governor {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return &Governor{bindings: out}
}

// Disabled reports whether a control with role should be disabled.
func Disabled(role Role, running bool) (disabled bool, managed bool) {
	switch role {
	case RoleStart:
		return running, true
	case RoleAbort:
		return !running, true
	default:
		return false, false
	}
}

// Update applies enablement when running differs from the last evaluation.
// It reports whether the controls were re-evaluated.
func (g *Governor) Update(running bool, view ControlLookup) bool {
	if g.evaluated && g.running == running {
		return false
	}
	g.evaluated = true
	g.running = running
	if view == nil {
		return true
	}
	for _, b := range g.bindings {
		disabled, managed := Disabled(b.Role, running)
		if !managed {
			continue
		}
		control, ok := view.Control(b.Name)
		if !ok || control == nil {
			continue
		}
		control.SetDisabled(disabled)
	}
	return true
}

// Allowed reports whether the named control may be used in the last evaluated state.
func (g *Governor) Allowed(name string) bool {
	for _, b := range g.bindings {
		if b.Name != name {
			continue
		}
		disabled, _ := Disabled(b.Role, g.running)
		return !disabled
	}
	return false
}
