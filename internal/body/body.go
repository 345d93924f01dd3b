package body

import (
	"fmt"
	"log/slog"

	"github.com/Versifine/wayfarer/internal/animation"
	"github.com/Versifine/wayfarer/internal/camera"
	"github.com/Versifine/wayfarer/internal/event"
	"github.com/Versifine/wayfarer/internal/input"
	"github.com/Versifine/wayfarer/internal/locomotion"
	"github.com/Versifine/wayfarer/internal/physics"
	"github.com/Versifine/wayfarer/internal/telemetry"
	"github.com/Versifine/wayfarer/internal/teleport"
	"github.com/Versifine/wayfarer/internal/world"
	"github.com/go-gl/mathgl/mgl64"
)

type StateUpdater interface {
	UpdatePosition(pos world.Position)
	UpdateLocomotion(state string)
}

type Config struct {
	Spawn      mgl64.Vec3
	Shape      physics.Shape
	SprintMode input.SprintMode
	Locomotion locomotion.Config
	Camera     camera.Config
	BlendSpeed float64
}

func DefaultConfig() Config {
	return Config{
		Shape:      physics.DefaultShape(),
		SprintMode: input.SprintHold,
		Locomotion: locomotion.DefaultConfig(),
		Camera:     camera.DefaultConfig(),
		BlendSpeed: animation.DefaultBlendSpeed,
	}
}

// Body is the player host. It owns the per-frame components and runs them in
// two phases: EarlyUpdate moves the character, LateUpdate turns the camera.
// The camera basis used for movement is therefore the one from the previous
// tick.
type Body struct {
	token      *teleport.Token
	actions    *input.ActionMap
	input      *input.State
	machine    *locomotion.Machine
	integrator *locomotion.Integrator
	controller *physics.CharacterController
	rig        *camera.Rig
	blender    *animation.Blender
	params     *animation.Params

	stateUpdater StateUpdater
	lastVelocity mgl64.Vec3
}

// New wires a body around token, which must be the coordinator's token. A nil
// token means the body can never be suspended.
func New(
	cfg Config,
	token *teleport.Token,
	blockStore physics.BlockStore,
	stateUpdater StateUpdater,
	bus *event.Bus,
	counters *telemetry.Counters,
) *Body {
	b := &Body{
		token:        token,
		actions:      input.NewActionMap(),
		params:       animation.NewParams(),
		stateUpdater: stateUpdater,
	}
	// A nil *Token stored in the Gate interface would not compare equal to nil,
	// so the gates get a real nil instead.
	var gate input.Gate
	if token != nil {
		gate = token
	}

	b.input = input.NewState(cfg.SprintMode, gate)
	b.controller = physics.NewCharacterController(cfg.Spawn, cfg.Shape, blockStore)
	b.rig = camera.NewRig(cfg.Camera, gate)
	b.machine = locomotion.NewMachine(cfg.Locomotion.MovingThreshold, gate)
	b.integrator = locomotion.NewIntegrator(cfg.Locomotion, b.controller, b.rig)
	b.blender = animation.NewBlender(cfg.BlendSpeed, b.params, gate)

	b.machine.OnChange(func(from, to locomotion.State) {
		slog.Debug("Locomotion state changed", "component", "body", "from", from.String(), "to", to.String())
		counters.Transition(from.String(), to.String())
		bus.Publish(event.EventLocomotionChanged, &event.LocomotionEvent{From: from.String(), To: to.String()})
		if b.stateUpdater != nil {
			b.stateUpdater.UpdateLocomotion(to.String())
		}
	})

	b.input.Enable(b.actions)
	b.actions.Enable()
	b.publish()
	return b
}

// EarlyUpdate runs input classification, the locomotion integrator and the
// animation blender. Nothing runs while a teleport is in flight.
func (b *Body) EarlyUpdate(dt float64) error {
	if b == nil {
		return fmt.Errorf("body is nil")
	}
	if b.token.IsSuspended() {
		return nil
	}

	b.controller.BeginTick(dt)
	snap := b.input.Snapshot()
	state := b.machine.Update(snap.Movement, b.controller.Velocity(), snap.SprintToggled)

	velocity, err := b.integrator.Step(state, snap.Movement, dt)
	if err == nil {
		b.lastVelocity = velocity
	}
	b.blender.Update(snap.Movement, dt)
	if err != nil {
		return fmt.Errorf("locomotion: %w", err)
	}
	return nil
}

// LateUpdate turns the camera from the latest look delta and publishes the
// resulting pose.
func (b *Body) LateUpdate(dt float64) error {
	if b == nil {
		return fmt.Errorf("body is nil")
	}
	b.rig.LateUpdate(b.input.Look())
	b.publish()
	return nil
}

// Disable unregisters the input callbacks; the body stops reacting to the
// action map until the process ends.
func (b *Body) Disable() {
	b.input.Disable()
	b.actions.Disable()
}

func (b *Body) publish() {
	if b.stateUpdater == nil {
		return
	}
	pos := b.controller.Position()
	b.stateUpdater.UpdatePosition(world.Position{
		X:     pos.X(),
		Y:     pos.Y(),
		Z:     pos.Z(),
		Yaw:   b.rig.Yaw(),
		Pitch: b.rig.Pitch(),
	})
}

// Sync republishes the pose, for use after a teleport between ticks.
func (b *Body) Sync() {
	b.publish()
}

func (b *Body) Actions() *input.ActionMap                { return b.actions }
func (b *Body) Input() *input.State                      { return b.input }
func (b *Body) Controller() *physics.CharacterController { return b.controller }
func (b *Body) Rig() *camera.Rig                         { return b.rig }
func (b *Body) Blender() *animation.Blender              { return b.blender }
func (b *Body) Params() *animation.Params                { return b.params }

func (b *Body) State() locomotion.State {
	return b.machine.Current()
}

func (b *Body) Position() mgl64.Vec3 {
	return b.controller.Position()
}

func (b *Body) Velocity() mgl64.Vec3 {
	return b.controller.Velocity()
}

// RequestedVelocity is the clamped velocity the integrator asked for on the
// last successful step, before collision shortened it.
func (b *Body) RequestedVelocity() mgl64.Vec3 {
	return b.lastVelocity
}
