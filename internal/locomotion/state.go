package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type State int

const (
	Idling State = iota
	Running
	Sprinting
)

func (s State) String() string {
	switch s {
	case Idling:
		return "idling"
	case Running:
		return "running"
	case Sprinting:
		return "sprinting"
	default:
		return "unknown"
	}
}

// Classify derives the locomotion state for one frame. Sprinting requires lateral
// motion to already be present; raw input alone only ever yields Running.
func Classify(movement mgl64.Vec2, velocity mgl64.Vec3, sprint bool, threshold float64) State {
	hasInput := movement != (mgl64.Vec2{})
	moving := LateralSpeed(velocity) > threshold

	switch {
	case sprint && moving:
		return Sprinting
	case moving || hasInput:
		return Running
	default:
		return Idling
	}
}

// LateralSpeed is the speed in the horizontal XZ plane.
func LateralSpeed(v mgl64.Vec3) float64 {
	s := math.Hypot(v[0], v[2])
	if math.IsNaN(s) {
		return 0
	}
	return s
}

type Gate interface {
	IsSuspended() bool
}

// Machine keeps the current state between frames so the integrator can pick the
// tier for the next tick.
type Machine struct {
	threshold float64
	gate      Gate
	current   State
	onChange  func(from, to State)
}

func NewMachine(threshold float64, gate Gate) *Machine {
	return &Machine{threshold: threshold, gate: gate}
}

// OnChange registers fn to be called for every transition.
func (m *Machine) OnChange(fn func(from, to State)) {
	if m != nil {
		m.onChange = fn
	}
}

func (m *Machine) Update(movement mgl64.Vec2, velocity mgl64.Vec3, sprint bool) State {
	if m == nil {
		return Idling
	}
	if m.gate != nil && m.gate.IsSuspended() {
		return m.current
	}
	next := Classify(movement, velocity, sprint, m.threshold)
	if next != m.current {
		prev := m.current
		m.current = next
		if m.onChange != nil {
			m.onChange(prev, next)
		}
	}
	return m.current
}

func (m *Machine) Current() State {
	if m == nil {
		return Idling
	}
	return m.current
}
