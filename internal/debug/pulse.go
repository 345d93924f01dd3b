package debug

import (
	"github.com/Versifine/wayfarer/internal/input"
	"github.com/go-gl/mathgl/mgl64"
)

// Pulses turns discrete key presses into the continuous signals the action
// map expects: a movement key holds its axis for a short pulse, and a look
// delta is cleared once the camera has consumed it. It must be used from the
// simulation goroutine and ticked before the body.
type Pulses struct {
	actions  *input.ActionMap
	duration float64

	forward, backward, left, right float64
	sent                           mgl64.Vec2
	look                           mgl64.Vec2
	lookPending                    bool
	lookApplied                    bool
	sprintHeld                     bool
}

func NewPulses(actions *input.ActionMap, duration float64) *Pulses {
	if duration <= 0 {
		duration = defaultMovePulse
	}
	return &Pulses{actions: actions, duration: duration}
}

func (p *Pulses) Forward()  { p.forward, p.backward = p.duration, 0 }
func (p *Pulses) Backward() { p.backward, p.forward = p.duration, 0 }
func (p *Pulses) Left()     { p.left, p.right = p.duration, 0 }
func (p *Pulses) Right()    { p.right, p.left = p.duration, 0 }

// Look adds delta to the look input. Presses that arrive before the camera
// has read the input add up, like mouse motion within one frame.
func (p *Pulses) Look(delta mgl64.Vec2) {
	if !p.lookPending || p.lookApplied {
		p.look = mgl64.Vec2{}
	}
	p.look = p.look.Add(delta)
	p.actions.Look(p.look)
	p.lookPending = true
	p.lookApplied = false
}

func (p *Pulses) SprintPress() {
	p.sprintHeld = true
	p.actions.SprintPressed()
}

func (p *Pulses) SprintRelease() {
	p.sprintHeld = false
	p.actions.SprintReleased()
}

func (p *Pulses) Clear() {
	p.forward, p.backward, p.left, p.right = 0, 0, 0, 0
	if p.sprintHeld {
		p.SprintRelease()
	}
}

func (p *Pulses) SprintHeld() bool     { return p.sprintHeld }
func (p *Pulses) Movement() mgl64.Vec2 { return p.sent }

func (p *Pulses) EarlyUpdate(dt float64) error {
	var movement mgl64.Vec2
	switch {
	case p.forward > 0:
		movement[1] = 1
	case p.backward > 0:
		movement[1] = -1
	}
	switch {
	case p.right > 0:
		movement[0] = 1
	case p.left > 0:
		movement[0] = -1
	}
	if movement != p.sent {
		p.actions.Movement(movement)
		p.sent = movement
	}
	p.forward = max(p.forward-dt, 0)
	p.backward = max(p.backward-dt, 0)
	p.left = max(p.left-dt, 0)
	p.right = max(p.right-dt, 0)

	if p.lookPending {
		if p.lookApplied {
			p.look = mgl64.Vec2{}
			p.actions.Look(p.look)
			p.lookPending = false
		} else {
			p.lookApplied = true
		}
	}
	return nil
}

func (p *Pulses) LateUpdate(dt float64) error { return nil }
