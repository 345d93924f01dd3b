package input

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type SprintMode int

const (
	SprintHold SprintMode = iota
	SprintToggle
)

func (m SprintMode) String() string {
	if m == SprintToggle {
		return "toggle"
	}
	return "hold"
}

func ParseSprintMode(s string) (SprintMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hold":
		return SprintHold, nil
	case "toggle":
		return SprintToggle, nil
	default:
		return SprintHold, fmt.Errorf("unknown sprint mode %q", s)
	}
}

// Gate reports whether per-frame input must currently be ignored.
type Gate interface {
	IsSuspended() bool
}

type Snapshot struct {
	Movement        mgl64.Vec2
	Look            mgl64.Vec2
	SprintToggled   bool
	TeleportBlocked bool
}

// State holds the most recent locomotion signals. It is written only by
// ActionMap callbacks and read by every other component within the same tick.
type State struct {
	mode    SprintMode
	gate    Gate
	actions *ActionMap

	movement mgl64.Vec2
	look     mgl64.Vec2
	sprint   bool
}

func NewState(mode SprintMode, gate Gate) *State {
	return &State{mode: mode, gate: gate}
}

// Enable starts from an empty snapshot and subscribes to the action map.
func (s *State) Enable(actions *ActionMap) {
	if s == nil {
		return
	}
	if s.actions != nil {
		s.Disable()
	}
	s.clear()
	if actions == nil {
		slog.Warn("Input enabled without an action map")
		return
	}
	s.actions = actions
	actions.Enable()
	actions.SetCallbacks(s)
}

func (s *State) Disable() {
	if s == nil {
		return
	}
	if s.actions != nil {
		s.actions.RemoveCallbacks(s)
		s.actions = nil
	}
	s.clear()
}

func (s *State) OnMovement(v mgl64.Vec2) { s.SetMovement(v) }
func (s *State) OnLook(v mgl64.Vec2)     { s.SetLook(v) }
func (s *State) OnSprint(e SprintEdge)   { s.SetSprintEdge(e) }

func (s *State) SetMovement(v mgl64.Vec2) {
	if s == nil || s.Blocked() {
		return
	}
	s.movement = mgl64.Vec2{clampAxis(v[0]), clampAxis(v[1])}
}

func (s *State) SetLook(v mgl64.Vec2) {
	if s == nil || s.Blocked() {
		return
	}
	s.look = mgl64.Vec2{finiteOrZero(v[0]), finiteOrZero(v[1])}
}

func (s *State) SetSprintEdge(edge SprintEdge) {
	if s == nil || s.Blocked() {
		return
	}
	hold := s.mode == SprintHold
	switch edge {
	case SprintPressed:
		s.sprint = hold || !s.sprint
	case SprintReleased:
		s.sprint = !hold && s.sprint
	}
}

func (s *State) Movement() mgl64.Vec2 {
	if s == nil {
		return mgl64.Vec2{}
	}
	return s.movement
}

func (s *State) Look() mgl64.Vec2 {
	if s == nil {
		return mgl64.Vec2{}
	}
	return s.look
}

func (s *State) SprintToggled() bool {
	return s != nil && s.sprint
}

func (s *State) Mode() SprintMode {
	if s == nil {
		return SprintHold
	}
	return s.mode
}

func (s *State) Blocked() bool {
	return s != nil && s.gate != nil && s.gate.IsSuspended()
}

func (s *State) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		Movement:        s.movement,
		Look:            s.look,
		SprintToggled:   s.sprint,
		TeleportBlocked: s.Blocked(),
	}
}

func (s *State) clear() {
	s.movement = mgl64.Vec2{}
	s.look = mgl64.Vec2{}
	s.sprint = false
}

func clampAxis(v float64) float64 {
	return mgl64.Clamp(finiteOrZero(v), -1, 1)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
