package event

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// NewTeleportEvent returns a pending event; the coordinator fills in OK and
// Reason when the teleport ends.
func NewTeleportEvent(from, target mgl64.Vec3, source SourceType) *TeleportEvent {
	return &TeleportEvent{
		From:   from,
		Target: target,
		Source: source,
	}
}

// TeleportEventHandler logs teleport.end events.
func TeleportEventHandler(evt any) {
	te, ok := evt.(*TeleportEvent)
	if !ok {
		slog.Error("Invalid event type for TeleportEventHandler")
		return
	}
	if !te.OK {
		slog.Warn("Teleport failed", "source", te.Source.String(), "reason", te.Reason)
		return
	}
	slog.Info("Teleport finished",
		"source", te.Source.String(),
		"from", te.From,
		"to", te.Target,
	)
}
