package body

import (
	"math"
	"testing"

	"github.com/Versifine/wayfarer/internal/animation"
	"github.com/Versifine/wayfarer/internal/event"
	"github.com/Versifine/wayfarer/internal/input"
	"github.com/Versifine/wayfarer/internal/locomotion"
	"github.com/Versifine/wayfarer/internal/teleport"
	"github.com/Versifine/wayfarer/internal/world"
	"github.com/go-gl/mathgl/mgl64"
)

type mockStateUpdater struct {
	positions  []world.Position
	locomotion []string
}

func (m *mockStateUpdater) UpdatePosition(pos world.Position) {
	m.positions = append(m.positions, pos)
}

func (m *mockStateUpdater) UpdateLocomotion(state string) {
	m.locomotion = append(m.locomotion, state)
}

type mockBlockStore struct {
	solid map[[3]int]bool
}

func newMockBlockStore() *mockBlockStore {
	return &mockBlockStore{solid: make(map[[3]int]bool)}
}

func (m *mockBlockStore) IsSolid(x, y, z int) bool {
	return m.solid[[3]int{x, y, z}]
}

func (m *mockBlockStore) setSolid(x, y, z int) {
	m.solid[[3]int{x, y, z}] = true
}

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.6f, want %.6f", field, got, want)
	}
}

func newTestBody(t *testing.T, mode input.SprintMode) (*Body, *teleport.Token, *mockStateUpdater) {
	t.Helper()
	token := teleport.NewToken()
	updater := &mockStateUpdater{}
	cfg := DefaultConfig()
	cfg.SprintMode = mode
	return New(cfg, token, nil, updater, nil, nil), token, updater
}

func TestBodyForwardScenario(t *testing.T) {
	b, _, _ := newTestBody(t, input.SprintHold)

	b.Actions().Movement(mgl64.Vec2{0, 1})
	if err := b.EarlyUpdate(1); err != nil {
		t.Fatalf("EarlyUpdate failed: %v", err)
	}

	// 35 accel, 20 drag, 4 clamp, dt 1: the clamp wins.
	v := b.Velocity()
	approxEqual(t, v.Len(), 4, 1e-9, "|v|")
	approxEqual(t, v.Z(), 4, 1e-9, "v.z")
	approxEqual(t, b.Position().Z(), 4, 1e-9, "pos.z")
	if b.State() != locomotion.Running {
		t.Fatalf("state = %v, want running", b.State())
	}
}

func TestBodyCameraLagsOneTick(t *testing.T) {
	b, _, _ := newTestBody(t, input.SprintHold)
	dt := 0.02

	b.Actions().Movement(mgl64.Vec2{0, 1})
	// SenseH 0.1: a 900 unit delta turns 90 degrees towards +X.
	b.Actions().Look(mgl64.Vec2{900, 0})

	if err := b.EarlyUpdate(dt); err != nil {
		t.Fatalf("EarlyUpdate: %v", err)
	}
	first := b.Position()
	if first.X() != 0 || first.Z() <= 0 {
		t.Fatalf("first tick moved to %v, want along +Z with the old basis", first)
	}
	if err := b.LateUpdate(dt); err != nil {
		t.Fatalf("LateUpdate: %v", err)
	}
	approxEqual(t, b.Rig().Yaw(), 90, 1e-9, "yaw")

	b.Actions().Look(mgl64.Vec2{})
	if err := b.EarlyUpdate(dt); err != nil {
		t.Fatalf("EarlyUpdate: %v", err)
	}
	second := b.Position()
	if second.X() <= first.X() {
		t.Fatalf("second tick x = %v, want movement along +X after the turn", second.X())
	}
}

func TestBodySuspendedSkipsEverything(t *testing.T) {
	b, token, _ := newTestBody(t, input.SprintHold)
	b.Actions().Movement(mgl64.Vec2{1, 0})

	token.Begin()
	b.Actions().Movement(mgl64.Vec2{0, -1})
	if err := b.EarlyUpdate(0.1); err != nil {
		t.Fatalf("EarlyUpdate: %v", err)
	}
	if err := b.LateUpdate(0.1); err != nil {
		t.Fatalf("LateUpdate: %v", err)
	}
	if b.Position() != (mgl64.Vec3{}) {
		t.Fatalf("body moved while suspended: %v", b.Position())
	}
	if _, ok := b.Params().Float(animation.ParamInputX); ok {
		t.Fatal("animation parameters written while suspended")
	}
	token.End()

	if got := b.Input().Movement(); got != (mgl64.Vec2{1, 0}) {
		t.Fatalf("movement = %v, input during suspension should be dropped", got)
	}
}

func TestBodySprintHoldReachesSprinting(t *testing.T) {
	b, _, updater := newTestBody(t, input.SprintHold)
	dt := 0.05

	b.Actions().Movement(mgl64.Vec2{0, 1})
	b.Actions().SprintPressed()

	// Sprinting needs lateral motion from a previous tick.
	if err := b.EarlyUpdate(dt); err != nil {
		t.Fatalf("EarlyUpdate: %v", err)
	}
	if b.State() != locomotion.Running {
		t.Fatalf("first tick state = %v, want running", b.State())
	}
	if err := b.EarlyUpdate(dt); err != nil {
		t.Fatalf("EarlyUpdate: %v", err)
	}
	if b.State() != locomotion.Sprinting {
		t.Fatalf("second tick state = %v, want sprinting", b.State())
	}

	for i := 0; i < 100; i++ {
		if err := b.EarlyUpdate(dt); err != nil {
			t.Fatalf("EarlyUpdate: %v", err)
		}
	}
	if got := b.RequestedVelocity().Len(); got > 7+1e-9 {
		t.Fatalf("|v| = %v exceeds sprint clamp", got)
	}
	approxEqual(t, b.Velocity().Len(), 7, 1e-9, "sprint |v|")

	b.Actions().SprintReleased()
	if err := b.EarlyUpdate(dt); err != nil {
		t.Fatalf("EarlyUpdate: %v", err)
	}
	if b.State() != locomotion.Running {
		t.Fatalf("state after release = %v, want running", b.State())
	}
	if got := b.RequestedVelocity().Len(); got > 4+1e-9 {
		t.Fatalf("|v| after release = %v, want run clamp", got)
	}

	want := []string{"running", "sprinting", "running"}
	if len(updater.locomotion) != len(want) {
		t.Fatalf("locomotion updates = %v, want %v", updater.locomotion, want)
	}
	for i := range want {
		if updater.locomotion[i] != want[i] {
			t.Fatalf("locomotion updates = %v, want %v", updater.locomotion, want)
		}
	}
}

func TestBodyCoastsToIdle(t *testing.T) {
	b, _, _ := newTestBody(t, input.SprintHold)
	b.Actions().Movement(mgl64.Vec2{0, 1})
	for i := 0; i < 10; i++ {
		_ = b.EarlyUpdate(0.05)
	}
	b.Actions().Movement(mgl64.Vec2{})
	for i := 0; i < 10; i++ {
		_ = b.EarlyUpdate(0.05)
	}
	if b.Velocity() != (mgl64.Vec3{}) {
		t.Fatalf("velocity = %v, want zero after coasting", b.Velocity())
	}
	// The classification sees last tick's velocity, so one more tick settles it.
	_ = b.EarlyUpdate(0.05)
	if b.State() != locomotion.Idling {
		t.Fatalf("state = %v, want idling", b.State())
	}
}

func TestBodyAnimationParamsCarryRawInput(t *testing.T) {
	b, _, _ := newTestBody(t, input.SprintHold)
	b.Actions().Movement(mgl64.Vec2{-0.5, 1})
	if err := b.EarlyUpdate(0.02); err != nil {
		t.Fatalf("EarlyUpdate: %v", err)
	}
	x, _ := b.Params().Float(animation.ParamInputX)
	y, _ := b.Params().Float(animation.ParamInputY)
	if x != -0.5 || y != 1 {
		t.Fatalf("params = (%v, %v), want (-0.5, 1)", x, y)
	}
}

func TestBodyWallStopsMovement(t *testing.T) {
	store := newMockBlockStore()
	for y := 0; y <= 2; y++ {
		for x := -2; x <= 2; x++ {
			store.setSolid(x, y, 1)
		}
	}
	cfg := DefaultConfig()
	b := New(cfg, teleport.NewToken(), store, nil, nil, nil)

	b.Actions().Movement(mgl64.Vec2{0, 1})
	for i := 0; i < 20; i++ {
		if err := b.EarlyUpdate(0.05); err != nil {
			t.Fatalf("EarlyUpdate: %v", err)
		}
	}
	if z := b.Position().Z(); z > 1-cfg.Shape.Depth/2+1e-6 {
		t.Fatalf("z = %v, body passed into the wall", z)
	}
	if b.State() != locomotion.Running {
		t.Fatalf("state = %v, want running while pushing into the wall", b.State())
	}
}

func TestBodyPublishesPoseInLatePhase(t *testing.T) {
	b, _, updater := newTestBody(t, input.SprintHold)
	initial := len(updater.positions)

	b.Actions().Look(mgl64.Vec2{100, -50})
	if err := b.EarlyUpdate(0.02); err != nil {
		t.Fatalf("EarlyUpdate: %v", err)
	}
	if len(updater.positions) != initial {
		t.Fatal("pose published during early phase")
	}
	if err := b.LateUpdate(0.02); err != nil {
		t.Fatalf("LateUpdate: %v", err)
	}
	last := updater.positions[len(updater.positions)-1]
	approxEqual(t, last.Yaw, 10, 1e-9, "yaw")
	approxEqual(t, last.Pitch, 5, 1e-9, "pitch")
}

func TestBodyTeleportThroughCoordinator(t *testing.T) {
	b, token, _ := newTestBody(t, input.SprintHold)
	bus := event.NewBus()
	coord := teleport.NewCoordinator(token, b.Controller(), bus, nil)

	b.Actions().Movement(mgl64.Vec2{0, 1})
	_ = b.EarlyUpdate(0.05)

	coord.TeleportTo(mgl64.Vec3{30, 0, 30})
	if b.Position() != (mgl64.Vec3{30, 0, 30}) {
		t.Fatalf("position = %v, want teleport target", b.Position())
	}
	if err := b.EarlyUpdate(0.05); err != nil {
		t.Fatalf("EarlyUpdate after teleport: %v", err)
	}
	if !b.Controller().CollisionEnabled() {
		t.Fatal("collision left disabled after teleport")
	}
}

func TestBodyDisableStopsInput(t *testing.T) {
	b, _, _ := newTestBody(t, input.SprintToggle)
	b.Actions().Movement(mgl64.Vec2{1, 0})
	b.Disable()
	b.Actions().Movement(mgl64.Vec2{0, 1})
	if got := b.Input().Movement(); got != (mgl64.Vec2{}) {
		t.Fatalf("movement after Disable = %v, want zero", got)
	}
}

func TestNilBody(t *testing.T) {
	var b *Body
	if err := b.EarlyUpdate(0.1); err == nil {
		t.Fatal("nil body EarlyUpdate should fail")
	}
	if err := b.LateUpdate(0.1); err == nil {
		t.Fatal("nil body LateUpdate should fail")
	}
}
