// Package teleport relocates the player body atomically with respect to the
// per-frame components: while a teleport is in flight the shared Token is set,
// input is dropped, and locomotion, camera and animation skip their updates.
package teleport

import (
	"log/slog"
	"math"

	"github.com/Versifine/wayfarer/internal/event"
	"github.com/Versifine/wayfarer/internal/telemetry"
	"github.com/go-gl/mathgl/mgl64"
)

type Phase int

const (
	Idle Phase = iota
	Teleporting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Teleporting:
		return "teleporting"
	default:
		return "unknown"
	}
}

// Anchor is anything with a world position to teleport to.
type Anchor interface {
	Position() mgl64.Vec3
}

// Point is a fixed Anchor.
type Point mgl64.Vec3

func (p Point) Position() mgl64.Vec3 { return mgl64.Vec3(p) }

type Relocator interface {
	Position() mgl64.Vec3
	SetPosition(mgl64.Vec3)
}

// collisionToggler is implemented by bodies whose collision must be switched off
// for a direct position write to stick.
type collisionToggler interface {
	SetCollisionEnabled(bool)
}

const (
	reasonNilTarget     = "nil target"
	reasonNilBody       = "nil body"
	reasonInvalidTarget = "invalid target"
	reasonReentrant     = "already teleporting"
)

type Coordinator struct {
	token    *Token
	body     Relocator
	bus      *event.Bus
	counters *telemetry.Counters
	phase    Phase
	count    int
}

// NewCoordinator creates a coordinator. bus and counters may be nil; a nil
// token is replaced by a fresh one.
func NewCoordinator(token *Token, body Relocator, bus *event.Bus, counters *telemetry.Counters) *Coordinator {
	if token == nil {
		token = NewToken()
	}
	return &Coordinator{
		token:    token,
		body:     body,
		bus:      bus,
		counters: counters,
	}
}

func (c *Coordinator) Token() *Token {
	return c.token
}

func (c *Coordinator) Phase() Phase {
	return c.phase
}

// Count reports how many teleports actually relocated the body.
func (c *Coordinator) Count() int {
	return c.count
}

func (c *Coordinator) Teleport(anchor Anchor) {
	c.TeleportFrom(event.SourceSystem, anchor)
}

func (c *Coordinator) TeleportTo(pos mgl64.Vec3) {
	c.TeleportFrom(event.SourceSystem, Point(pos))
}

// TeleportFrom runs the full bracket. The token is always released and the
// coordinator always returns to Idle, whatever happens during relocation.
func (c *Coordinator) TeleportFrom(source event.SourceType, anchor Anchor) {
	if c.phase == Teleporting {
		slog.Warn("Teleport rejected", "component", "teleport", "reason", reasonReentrant, "source", source.String())
		c.counters.TeleportFailed(reasonReentrant)
		return
	}

	c.phase = Teleporting
	c.token.Begin()

	end := event.NewTeleportEvent(mgl64.Vec3{}, mgl64.Vec3{}, source)
	defer func() {
		c.token.End()
		c.phase = Idle
		c.bus.Publish(event.EventTeleportEnd, end)
	}()

	if c.body != nil {
		end.From = c.body.Position()
	}
	if anchor != nil {
		end.Target = anchor.Position()
	}
	start := event.NewTeleportEvent(end.From, end.Target, source)
	c.bus.Publish(event.EventTeleportStart, start)
	slog.Info("Teleport started", "component", "teleport", "source", source.String(), "target", end.Target)

	switch {
	case anchor == nil:
		end.Reason = reasonNilTarget
	case c.body == nil:
		end.Reason = reasonNilBody
	case !finite(end.Target):
		end.Reason = reasonInvalidTarget
	}
	if end.Reason != "" {
		slog.Error("Teleport skipped", "component", "teleport", "reason", end.Reason, "source", source.String())
		c.counters.TeleportFailed(end.Reason)
		return
	}

	relocate(c.body, end.Target)
	end.OK = true
	c.count++
	c.counters.Teleport(source.String())
}

func relocate(body Relocator, target mgl64.Vec3) {
	toggler, ok := body.(collisionToggler)
	if !ok {
		body.SetPosition(target)
		return
	}
	toggler.SetCollisionEnabled(false)
	body.SetPosition(target)
	toggler.SetCollisionEnabled(true)
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
