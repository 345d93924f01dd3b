package input

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeGate struct {
	suspended bool
}

func (g *fakeGate) IsSuspended() bool { return g.suspended }

func TestSprintHoldMode(t *testing.T) {
	s := NewState(SprintHold, nil)

	s.SetSprintEdge(SprintPressed)
	if !s.SprintToggled() {
		t.Fatalf("hold: press should set sprint immediately")
	}
	s.SetSprintEdge(SprintPressed)
	if !s.SprintToggled() {
		t.Fatalf("hold: repeated press should keep sprint on")
	}
	s.SetSprintEdge(SprintReleased)
	if s.SprintToggled() {
		t.Fatalf("hold: release should clear sprint immediately")
	}
}

func TestSprintToggleMode(t *testing.T) {
	s := NewState(SprintToggle, nil)

	s.SetSprintEdge(SprintPressed)
	if !s.SprintToggled() {
		t.Fatalf("toggle: first press should turn sprint on")
	}
	s.SetSprintEdge(SprintReleased)
	if !s.SprintToggled() {
		t.Fatalf("toggle: release must not change sprint")
	}
	s.SetSprintEdge(SprintPressed)
	if s.SprintToggled() {
		t.Fatalf("toggle: second press should turn sprint off")
	}
	s.SetSprintEdge(SprintReleased)
	if s.SprintToggled() {
		t.Fatalf("toggle: release must not change sprint")
	}
}

func TestBlockedInputIsDropped(t *testing.T) {
	gate := &fakeGate{}
	s := NewState(SprintHold, gate)
	s.SetMovement(mgl64.Vec2{0, 1})

	gate.suspended = true
	s.SetMovement(mgl64.Vec2{1, 0})
	s.SetLook(mgl64.Vec2{5, 5})
	s.SetSprintEdge(SprintPressed)

	if !s.Blocked() {
		t.Fatalf("Blocked() = false while gate suspended")
	}
	if s.Movement() != (mgl64.Vec2{0, 1}) {
		t.Fatalf("movement = %v, want [0 1] (blocked write must be dropped)", s.Movement())
	}
	if s.Look() != (mgl64.Vec2{}) || s.SprintToggled() {
		t.Fatalf("look/sprint changed while blocked: %+v", s.Snapshot())
	}
	if !s.Snapshot().TeleportBlocked {
		t.Fatalf("snapshot should report teleport block")
	}

	gate.suspended = false
	if s.Movement() != (mgl64.Vec2{0, 1}) {
		t.Fatalf("dropped signal must not be replayed after unblock, got %v", s.Movement())
	}
	s.SetMovement(mgl64.Vec2{1, 0})
	if s.Movement() != (mgl64.Vec2{1, 0}) {
		t.Fatalf("movement after unblock = %v, want [1 0]", s.Movement())
	}
}

func TestMovementIsClampedAndSanitized(t *testing.T) {
	s := NewState(SprintHold, nil)
	s.SetMovement(mgl64.Vec2{2.5, -3})
	if s.Movement() != (mgl64.Vec2{1, -1}) {
		t.Fatalf("movement = %v, want [1 -1]", s.Movement())
	}
	s.SetMovement(mgl64.Vec2{math.NaN(), 0.5})
	if s.Movement() != (mgl64.Vec2{0, 0.5}) {
		t.Fatalf("movement = %v, want [0 0.5]", s.Movement())
	}
	s.SetLook(mgl64.Vec2{math.Inf(-1), 40})
	if s.Look() != (mgl64.Vec2{0, 40}) {
		t.Fatalf("look = %v, want [0 40]", s.Look())
	}
}

func TestEnableDisableLifecycle(t *testing.T) {
	actions := NewActionMap()
	s := NewState(SprintToggle, nil)
	s.Enable(actions)

	actions.Movement(mgl64.Vec2{0.5, 0.5})
	actions.Look(mgl64.Vec2{3, -2})
	actions.SprintPressed()
	if s.Movement() != (mgl64.Vec2{0.5, 0.5}) || s.Look() != (mgl64.Vec2{3, -2}) || !s.SprintToggled() {
		t.Fatalf("callbacks not delivered: %+v", s.Snapshot())
	}

	s.Disable()
	if s.Snapshot() != (Snapshot{}) {
		t.Fatalf("Disable should clear state, got %+v", s.Snapshot())
	}
	actions.Movement(mgl64.Vec2{1, 1})
	if s.Movement() != (mgl64.Vec2{}) {
		t.Fatalf("disabled state received movement %v", s.Movement())
	}

	s.Enable(actions)
	if s.SprintToggled() {
		t.Fatalf("sprint toggle must not persist across enable cycles")
	}
}

func TestActionMapDisabledDropsSignals(t *testing.T) {
	actions := NewActionMap()
	s := NewState(SprintHold, nil)
	s.Enable(actions)
	actions.Disable()

	actions.Movement(mgl64.Vec2{1, 0})
	if s.Movement() != (mgl64.Vec2{}) {
		t.Fatalf("disabled map delivered movement %v", s.Movement())
	}
}

func TestSetCallbacksIsIdempotent(t *testing.T) {
	actions := NewActionMap()
	s := NewState(SprintToggle, nil)
	actions.Enable()
	actions.SetCallbacks(s)
	actions.SetCallbacks(s)

	actions.SprintPressed()
	if !s.SprintToggled() {
		t.Fatalf("toggle delivered twice would cancel out; want single registration")
	}
}

func TestParseSprintMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SprintMode
		wantErr bool
	}{
		{"hold", SprintHold, false},
		{"", SprintHold, false},
		{" Toggle ", SprintToggle, false},
		{"double-tap", SprintHold, true},
	}
	for _, tt := range tests {
		got, err := ParseSprintMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseSprintMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseSprintMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
