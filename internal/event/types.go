package event

import "github.com/go-gl/mathgl/mgl64"

const (
	EventTeleportStart     = "teleport.start"
	EventTeleportEnd       = "teleport.end"
	EventLocomotionChanged = "locomotion.changed"
	EventPanelShown        = "panel.shown"
	EventPanelHidden       = "panel.hidden"
	EventViewChanged       = "view.changed"
)

type SourceType int

const (
	SourceSystem SourceType = iota
	SourceTravel
	SourceConsole
)

func (st SourceType) String() string {
	switch st {
	case SourceSystem:
		return "System"
	case SourceTravel:
		return "Travel"
	case SourceConsole:
		return "Console"
	default:
		return "Unknown"
	}
}

type TeleportEvent struct {
	From   mgl64.Vec3
	Target mgl64.Vec3
	Source SourceType
	// OK is only meaningful on teleport.end.
	OK     bool
	Reason string
}

type LocomotionEvent struct {
	From string
	To   string
}

type PanelEvent struct {
	Building string
}

type ViewEvent struct {
	View string
}
