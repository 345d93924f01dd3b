package animation

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	ParamInputX = "inputX"
	ParamInputY = "inputY"

	DefaultBlendSpeed = 4.0
)

// Sink receives named scalar animation parameters.
type Sink interface {
	SetFloat(name string, value float64)
}

type Gate interface {
	IsSuspended() bool
}

// Blender eases a blend vector toward the raw input each tick. The parameters it
// writes carry the raw input; the blend vector is only the interpolation state.
type Blender struct {
	speed float64
	sink  Sink
	gate  Gate

	blend      mgl64.Vec2
	warnedSink bool
}

func NewBlender(speed float64, sink Sink, gate Gate) *Blender {
	if speed < 0 || math.IsNaN(speed) {
		speed = DefaultBlendSpeed
	}
	return &Blender{speed: speed, sink: sink, gate: gate}
}

func (b *Blender) Update(raw mgl64.Vec2, dt float64) {
	if b == nil {
		return
	}
	if b.gate != nil && b.gate.IsSuspended() {
		return
	}
	if b.sink == nil {
		if !b.warnedSink {
			slog.Warn("Animation sink missing, skipping parameter writes")
			b.warnedSink = true
		}
		return
	}

	t := mgl64.Clamp(b.speed*dt, 0, 1)
	if math.IsNaN(t) {
		t = 0
	}
	b.blend = lerp(b.blend, raw, t)

	b.sink.SetFloat(ParamInputX, raw[0])
	b.sink.SetFloat(ParamInputY, raw[1])
}

func (b *Blender) Blend() mgl64.Vec2 {
	if b == nil {
		return mgl64.Vec2{}
	}
	return b.blend
}

func lerp(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// Params is an in-memory parameter store.
type Params struct {
	values map[string]float64
}

func NewParams() *Params {
	return &Params{values: make(map[string]float64)}
}

func (p *Params) SetFloat(name string, value float64) {
	p.values[name] = value
}

func (p *Params) Float(name string) (float64, bool) {
	v, ok := p.values[name]
	return v, ok
}
