package live

import (
	"github.com/charmbracelet/bubbles/key"

	"migwatch/internal/poll"
)

// ControlSpec describes one operator control shown under the log.
type ControlSpec struct {
	Name   string
	Label  string
	Action string
	Key    string
	Role   poll.Role
}

// button is a keyboard-bound operator control. It implements poll.Control.
type button struct {
	spec     ControlSpec
	binding  key.Binding
	disabled bool
}

func newButton(spec ControlSpec) *button {
	binding := key.NewBinding(
		key.WithKeys(spec.Key),
		key.WithHelp(spec.Key, spec.Label),
	)
	if spec.Key == "" {
		binding.SetEnabled(false)
	}
	return &button{spec: spec, binding: binding}
}

// SetDisabled implements poll.Control.
func (b *button) SetDisabled(disabled bool) {
	b.disabled = disabled
	b.binding.SetEnabled(!disabled && b.spec.Key != "")
}

// buttonSet indexes buttons by control name.
type buttonSet []*button

// Control implements poll.ControlLookup.
func (s buttonSet) Control(name string) (poll.Control, bool) {
	for _, b := range s {
		if b.spec.Name == name {
			return b, true
		}
	}
	return nil, false
}

// bindings returns the governor bindings for the set.
func (s buttonSet) bindings() []poll.Binding {
	out := make([]poll.Binding, 0, len(s))
	for _, b := range s {
		out = append(out, poll.Binding{Name: b.spec.Name, Role: b.spec.Role})
	}
	return out
}

// match returns the button whose key was pressed, enabled or not.
func (s buttonSet) match(msg string) *button {
	for _, b := range s {
		if b.spec.Key != "" && b.spec.Key == msg {
			return b
		}
	}
	return nil
}

// helpBindings returns the key bindings of enabled buttons.
func (s buttonSet) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(s))
	for _, b := range s {
		if b.binding.Enabled() {
			out = append(out, b.binding)
		}
	}
	return out
}
