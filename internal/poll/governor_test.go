package poll

import "testing"

type fakeControl struct {
	disabled bool
	sets     int
}

func (c *fakeControl) SetDisabled(disabled bool) {
	c.disabled = disabled
	c.sets++
}

// TestGovernorAppliesRoles verifies Start and Abort controls flip with the running flag.
func TestGovernorAppliesRoles(t *testing.T) {
	start := &fakeControl{}
	abort := &fakeControl{}
	other := &fakeControl{disabled: true}
	view := ControlSet{"start": start, "abort": abort, "refresh": other}
	gov := NewGovernor([]Binding{
		{Name: "start", Role: RoleStart},
		{Name: "abort", Role: RoleAbort},
		{Name: "refresh", Role: RoleOther},
	})

	if !gov.Update(true, view) {
		t.Fatalf("expected first update to evaluate")
	}
	if !start.disabled || abort.disabled {
		t.Fatalf("running: expected start disabled and abort enabled, got start=%v abort=%v", start.disabled, abort.disabled)
	}
	if other.sets != 0 || !other.disabled {
		t.Fatalf("expected other control to be left alone")
	}

	gov.Update(false, view)
	if start.disabled || !abort.disabled {
		t.Fatalf("idle: expected start enabled and abort disabled, got start=%v abort=%v", start.disabled, abort.disabled)
	}
	if !gov.Allowed("start") || gov.Allowed("abort") {
		t.Fatalf("unexpected allowed state while idle")
	}
	if !gov.Allowed("refresh") {
		t.Fatalf("expected other control to stay allowed")
	}
	if gov.Allowed("missing") {
		t.Fatalf("expected unknown control to be refused")
	}
}

// TestGovernorSkipsUnchangedState verifies controls are touched only on transitions.
func TestGovernorSkipsUnchangedState(t *testing.T) {
	start := &fakeControl{}
	view := ControlSet{"start": start}
	gov := NewGovernor([]Binding{{Name: "start", Role: RoleStart}})
	gov.Update(false, view)
	if gov.Update(false, view) {
		t.Fatalf("expected repeated state to be skipped")
	}
	if start.sets != 1 {
		t.Fatalf("expected one set, got %d", start.sets)
	}
}

// TestGovernorToleratesMissingControls verifies absent controls are skipped.
func TestGovernorToleratesMissingControls(t *testing.T) {
	gov := NewGovernor([]Binding{{Name: "abort", Role: RoleAbort}})
	if !gov.Update(true, ControlSet{}) {
		t.Fatalf("expected evaluation without controls")
	}
	if !gov.Update(false, nil) {
		t.Fatalf("expected evaluation with nil view")
	}
}

// TestParseRole covers config role names.
func TestParseRole(t *testing.T) {
	cases := map[string]Role{"start": RoleStart, " Abort ": RoleAbort, "": RoleOther, "other": RoleOther}
	for input, want := range cases {
		got, err := ParseRole(input)
		if err != nil || got != want {
			t.Fatalf("ParseRole(%q) = %s, %v; want %s", input, got, err, want)
		}
	}
	if _, err := ParseRole("pause"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
