package input

import "github.com/go-gl/mathgl/mgl64"

type SprintEdge int

const (
	SprintPressed SprintEdge = iota
	SprintReleased
)

func (e SprintEdge) String() string {
	switch e {
	case SprintPressed:
		return "pressed"
	case SprintReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Handler receives the three locomotion signals produced by a binding layer.
type Handler interface {
	OnMovement(v mgl64.Vec2)
	OnLook(v mgl64.Vec2)
	OnSprint(edge SprintEdge)
}

// ActionMap is the registration surface between device bindings and consumers.
// Signals raised while the map is disabled are discarded.
type ActionMap struct {
	enabled  bool
	handlers []Handler
}

func NewActionMap() *ActionMap {
	return &ActionMap{}
}

func (m *ActionMap) Enable() {
	if m != nil {
		m.enabled = true
	}
}

func (m *ActionMap) Disable() {
	if m != nil {
		m.enabled = false
	}
}

func (m *ActionMap) Enabled() bool {
	return m != nil && m.enabled
}

func (m *ActionMap) SetCallbacks(h Handler) {
	if m == nil || h == nil {
		return
	}
	for _, existing := range m.handlers {
		if existing == h {
			return
		}
	}
	m.handlers = append(m.handlers, h)
}

func (m *ActionMap) RemoveCallbacks(h Handler) {
	if m == nil {
		return
	}
	kept := m.handlers[:0]
	for _, existing := range m.handlers {
		if existing != h {
			kept = append(kept, existing)
		}
	}
	for i := len(kept); i < len(m.handlers); i++ {
		m.handlers[i] = nil
	}
	m.handlers = kept
}

func (m *ActionMap) Movement(v mgl64.Vec2) {
	m.each(func(h Handler) { h.OnMovement(v) })
}

func (m *ActionMap) Look(v mgl64.Vec2) {
	m.each(func(h Handler) { h.OnLook(v) })
}

func (m *ActionMap) SprintPressed() {
	m.each(func(h Handler) { h.OnSprint(SprintPressed) })
}

func (m *ActionMap) SprintReleased() {
	m.each(func(h Handler) { h.OnSprint(SprintReleased) })
}

func (m *ActionMap) each(fn func(Handler)) {
	if m == nil || !m.enabled {
		return
	}
	for _, h := range m.handlers {
		fn(h)
	}
}
