// Package camera integrates look input into a first/third person orbit: yaw turns
// the character body, pitch tilts only the camera.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Config struct {
	SenseH     float64
	SenseV     float64
	LookLimitV float64 // degrees
}

func DefaultConfig() Config {
	return Config{SenseH: 0.1, SenseV: 0.1, LookLimitV: 89}
}

type Gate interface {
	IsSuspended() bool
}

// Rig owns the camera orientation. It must be advanced in the late phase so the
// basis read by movement is always the previous tick's.
type Rig struct {
	cfg  Config
	gate Gate

	yaw   float64 // degrees, unbounded
	pitch float64 // degrees, within ±LookLimitV

	bodyYaw  float64
	rotation mgl64.Quat
}

func NewRig(cfg Config, gate Gate) *Rig {
	cfg.LookLimitV = math.Abs(cfg.LookLimitV)
	if cfg.LookLimitV > 90 {
		cfg.LookLimitV = 90
	}
	return &Rig{cfg: cfg, gate: gate, rotation: mgl64.QuatIdent()}
}

// LateUpdate folds one tick of look delta into the accumulators and applies the
// result to the body yaw and the camera rotation.
func (r *Rig) LateUpdate(look mgl64.Vec2) {
	if r == nil {
		return
	}
	if r.gate != nil && r.gate.IsSuspended() {
		return
	}
	dx := r.cfg.SenseH * look[0]
	dy := r.cfg.SenseV * look[1]
	if !isFinite(dx) || !isFinite(dy) {
		return
	}

	r.yaw += dx
	r.pitch = clampPitch(r.pitch-dy, r.cfg.LookLimitV)

	r.bodyYaw = r.yaw
	r.rotation = orientation(r.yaw, r.pitch)
}

// SetOrientation snaps the rig, for spawning or scripted cameras.
func (r *Rig) SetOrientation(yaw, pitch float64) {
	if r == nil || !isFinite(yaw) || !isFinite(pitch) {
		return
	}
	r.yaw = yaw
	r.pitch = clampPitch(pitch, r.cfg.LookLimitV)
	r.bodyYaw = r.yaw
	r.rotation = orientation(r.yaw, r.pitch)
}

func (r *Rig) Yaw() float64 {
	if r == nil {
		return 0
	}
	return r.yaw
}

func (r *Rig) Pitch() float64 {
	if r == nil {
		return 0
	}
	return r.pitch
}

// BodyYaw is the heading applied to the character, in degrees.
func (r *Rig) BodyYaw() float64 {
	if r == nil {
		return 0
	}
	return r.bodyYaw
}

func (r *Rig) BodyRotation() mgl64.Quat {
	if r == nil {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(mgl64.DegToRad(r.bodyYaw), mgl64.Vec3{0, 1, 0})
}

func (r *Rig) Rotation() mgl64.Quat {
	if r == nil {
		return mgl64.QuatIdent()
	}
	return r.rotation
}

func (r *Rig) Forward() mgl64.Vec3 {
	return r.Rotation().Rotate(mgl64.Vec3{0, 0, 1})
}

func (r *Rig) Right() mgl64.Vec3 {
	return r.Rotation().Rotate(mgl64.Vec3{1, 0, 0})
}

func (r *Rig) Config() Config {
	if r == nil {
		return DefaultConfig()
	}
	return r.cfg
}

// orientation builds yaw about +Y applied after pitch about +X, so positive pitch
// looks down and yaw 90 faces +X.
func orientation(yaw, pitch float64) mgl64.Quat {
	qYaw := mgl64.QuatRotate(mgl64.DegToRad(yaw), mgl64.Vec3{0, 1, 0})
	qPitch := mgl64.QuatRotate(mgl64.DegToRad(pitch), mgl64.Vec3{1, 0, 0})
	return qYaw.Mul(qPitch).Normalize()
}

func clampPitch(p, limit float64) float64 {
	return mgl64.Clamp(p, -limit, limit)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
