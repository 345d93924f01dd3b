package locomotion

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const degenerateLength = 1e-9

type Tier struct {
	Acceleration float64
	SpeedClamp   float64
}

type Config struct {
	Run             Tier
	Sprint          Tier
	Drag            float64
	MovingThreshold float64
}

func DefaultConfig() Config {
	return Config{
		Run:             Tier{Acceleration: 35, SpeedClamp: 4},
		Sprint:          Tier{Acceleration: 50, SpeedClamp: 7},
		Drag:            20,
		MovingThreshold: 0.01,
	}
}

// TierFor returns the acceleration tier for s. Idling shares the run tier.
func (c Config) TierFor(s State) Tier {
	if s == Sprinting {
		return c.Sprint
	}
	return c.Run
}

// Orientation supplies the camera basis used to turn input into a world direction.
type Orientation interface {
	Forward() mgl64.Vec3
	Right() mgl64.Vec3
}

// Mover is the collision-aware move primitive. Move must be called at most once
// per tick; Velocity reports the velocity realized by the last move.
type Mover interface {
	Move(displacement mgl64.Vec3) error
	Velocity() mgl64.Vec3
}

type Integrator struct {
	cfg   Config
	mover Mover
	view  Orientation
}

func NewIntegrator(cfg Config, mover Mover, view Orientation) *Integrator {
	return &Integrator{cfg: cfg, mover: mover, view: view}
}

func (i *Integrator) Config() Config {
	if i == nil {
		return DefaultConfig()
	}
	return i.cfg
}

// Step computes the clamped velocity for this tick and hands velocity*dt to the
// mover exactly once. The returned vector is the requested velocity.
func (i *Integrator) Step(state State, movement mgl64.Vec2, dt float64) (mgl64.Vec3, error) {
	if i == nil || i.mover == nil {
		return mgl64.Vec3{}, fmt.Errorf("integrator has no mover")
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return mgl64.Vec3{}, fmt.Errorf("invalid tick length %v", dt)
	}

	var forward, right mgl64.Vec3
	if i.view != nil {
		forward, right = i.view.Forward(), i.view.Right()
	}

	velocity := NextVelocity(i.mover.Velocity(), MovementDirection(forward, right, movement), i.cfg.TierFor(state), i.cfg.Drag, dt)
	if err := i.mover.Move(velocity.Mul(dt)); err != nil {
		return velocity, fmt.Errorf("move: %w", err)
	}
	return velocity, nil
}

// NextVelocity applies acceleration, drag and the tier clamp in that order.
func NextVelocity(prev, direction mgl64.Vec3, tier Tier, drag, dt float64) mgl64.Vec3 {
	if !finite3(prev) {
		prev = mgl64.Vec3{}
	}
	v := prev.Add(direction.Mul(tier.Acceleration * dt))
	v = ApplyDrag(v, drag, dt)
	return ClampMagnitude(v, tier.SpeedClamp)
}

// MovementDirection maps raw input onto the horizontal camera basis.
func MovementDirection(forward, right mgl64.Vec3, movement mgl64.Vec2) mgl64.Vec3 {
	f := FlattenXZ(forward)
	r := FlattenXZ(right)
	return r.Mul(movement[0]).Add(f.Mul(movement[1]))
}

// FlattenXZ projects v onto the horizontal plane and normalizes it. A vertical or
// zero vector yields the zero vector.
func FlattenXZ(v mgl64.Vec3) mgl64.Vec3 {
	flat := mgl64.Vec3{v[0], 0, v[2]}
	length := flat.Len()
	if !(length > degenerateLength) || math.IsInf(length, 0) {
		return mgl64.Vec3{}
	}
	return flat.Mul(1.0 / length)
}

// ApplyDrag removes drag*dt of speed along v without ever reversing it.
func ApplyDrag(v mgl64.Vec3, drag, dt float64) mgl64.Vec3 {
	amount := drag * dt
	speed := v.Len()
	if speed == 0 || !(speed > amount) {
		return mgl64.Vec3{}
	}
	return v.Mul((speed - amount) / speed)
}

// ClampMagnitude rescales v so its length does not exceed max.
func ClampMagnitude(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if max <= 0 {
		return mgl64.Vec3{}
	}
	speed := v.Len()
	if speed <= max {
		return v
	}
	return v.Mul(max / speed)
}

func finite3(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
