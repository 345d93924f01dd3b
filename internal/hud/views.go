package hud

import (
	"log/slog"
	"math"

	"github.com/Versifine/wayfarer/internal/event"
	"github.com/go-gl/mathgl/mgl64"
)

type View int

const (
	Follow View = iota
	Overhead
)

func (v View) String() string {
	switch v {
	case Follow:
		return "follow"
	case Overhead:
		return "overhead"
	default:
		return "unknown"
	}
}

type OverheadConfig struct {
	StartSize float64
	MinZoom   float64
	MaxZoom   float64
	ZoomSpeed float64
}

func DefaultOverheadConfig() OverheadConfig {
	return OverheadConfig{StartSize: 500, MinZoom: 10, MaxZoom: 50, ZoomSpeed: 10}
}

const (
	startSizeTolerance = 0.1
	scrollDeadZone     = 0.01
)

// Views switches between the follow camera and an orthographic overhead
// camera with zoom and drag-to-pan.
type Views struct {
	cfg    OverheadConfig
	bus    *event.Bus
	active View
	size   float64
	center mgl64.Vec3

	dragging   bool
	dragOrigin mgl64.Vec2
}

func NewViews(cfg OverheadConfig, bus *event.Bus) *Views {
	return &Views{cfg: cfg, bus: bus, active: Follow}
}

func (v *Views) Toggle() View {
	if v.active == Follow {
		v.activate(Overhead)
	} else {
		v.activate(Follow)
	}
	return v.active
}

func (v *Views) activate(view View) {
	v.active = view
	v.dragging = false
	// Any zoomed size is outside the tolerance, so it resets too.
	if view == Overhead && math.Abs(v.size-v.cfg.StartSize) > startSizeTolerance {
		v.size = v.cfg.StartSize
	}
	slog.Debug("View switched", "component", "hud", "view", view.String())
	v.bus.Publish(event.EventViewChanged, &event.ViewEvent{View: view.String()})
}

// Zoom applies one scroll step. It reports whether the size changed.
func (v *Views) Zoom(scroll float64) bool {
	if v.active != Overhead || math.IsNaN(scroll) || math.Abs(scroll) <= scrollDeadZone {
		return false
	}
	v.size = mgl64.Clamp(v.size-scroll*v.cfg.ZoomSpeed, v.cfg.MinZoom, v.cfg.MaxZoom)
	slog.Debug("Zoom level", "component", "hud", "size", v.size)
	return true
}

// BeginDrag records the drag origin in viewport coordinates (0..1).
func (v *Views) BeginDrag(x, y float64) {
	if v.active != Overhead {
		return
	}
	v.dragging = true
	v.dragOrigin = mgl64.Vec2{x, y}
}

// DragTo pans the overhead camera opposite to the pointer motion, scaled by
// the current size, and moves the origin to the new point.
func (v *Views) DragTo(x, y float64) {
	if v.active != Overhead || !v.dragging {
		return
	}
	d := mgl64.Vec2{x, y}.Sub(v.dragOrigin)
	v.center = v.center.Add(mgl64.Vec3{-d.X(), 0, -d.Y()}.Mul(v.size))
	v.dragOrigin = mgl64.Vec2{x, y}
}

func (v *Views) EndDrag() {
	v.dragging = false
}

func (v *Views) Active() View       { return v.active }
func (v *Views) Size() float64      { return v.size }
func (v *Views) Center() mgl64.Vec3 { return v.center }
func (v *Views) Dragging() bool     { return v.dragging }

func (v *Views) SetCenter(c mgl64.Vec3) {
	v.center = c
}
