package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CharacterController is the collision-aware move primitive. Move may be called at
// most once between two BeginTick calls and may shorten the requested displacement
// against solid blocks.
type CharacterController struct {
	shape      Shape
	blockStore BlockStore

	position mgl64.Vec3
	velocity mgl64.Vec3
	enabled  bool

	dt    float64
	moved bool
}

func NewCharacterController(initial mgl64.Vec3, shape Shape, blockStore BlockStore) *CharacterController {
	if shape.Width <= 0 || shape.Depth <= 0 || shape.Height <= 0 {
		shape = DefaultShape()
	}
	return &CharacterController{
		shape:      shape,
		blockStore: blockStore,
		position:   initial,
		enabled:    true,
	}
}

// BeginTick opens a new tick of length dt and re-arms Move.
func (c *CharacterController) BeginTick(dt float64) {
	if c == nil {
		return
	}
	c.dt = dt
	c.moved = false
}

func (c *CharacterController) Move(displacement mgl64.Vec3) error {
	if c == nil {
		return fmt.Errorf("character controller is nil")
	}
	if !c.enabled {
		return ErrDisabled
	}
	if c.moved {
		return ErrAlreadyMoved
	}
	c.moved = true

	if !finite(displacement) {
		displacement = mgl64.Vec3{}
	}

	newPos, realized := ResolveMovement(c.position, displacement, c.shape, c.blockStore)
	c.position = newPos
	if c.dt > 0 {
		c.velocity = realized.Mul(1.0 / c.dt)
	} else {
		c.velocity = mgl64.Vec3{}
	}
	return nil
}

func (c *CharacterController) Position() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.position
}

// Velocity is the realized displacement of the last Move divided by its tick length.
func (c *CharacterController) Velocity() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.velocity
}

// SetPosition places the body without sweeping. Velocity is kept, as a real
// controller keeps it across a transform assignment.
func (c *CharacterController) SetPosition(pos mgl64.Vec3) {
	if c == nil || !finite(pos) {
		return
	}
	c.position = pos
}

func (c *CharacterController) SetCollisionEnabled(enabled bool) {
	if c == nil {
		return
	}
	c.enabled = enabled
}

func (c *CharacterController) CollisionEnabled() bool {
	return c != nil && c.enabled
}

func (c *CharacterController) Shape() Shape {
	if c == nil {
		return DefaultShape()
	}
	return c.shape
}

func (c *CharacterController) Colliding() bool {
	if c == nil {
		return false
	}
	return CollidesWithBlock(c.shape.AABBAt(c.position), c.blockStore)
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
