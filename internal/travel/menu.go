package travel

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Versifine/wayfarer/internal/event"
	"github.com/Versifine/wayfarer/internal/teleport"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrUnknownPlace = errors.New("unknown place")

type Place struct {
	Name     string
	Location mgl64.Vec3
}

func (p Place) Position() mgl64.Vec3 {
	return p.Location
}

type Teleporter interface {
	TeleportFrom(source event.SourceType, anchor teleport.Anchor)
}

// Menu is the fast-travel list. Selecting a place teleports the player there
// and closes the menu.
type Menu struct {
	places     []Place
	index      map[string]int
	teleporter Teleporter
	open       bool
}

func NewMenu(places []Place, teleporter Teleporter) *Menu {
	m := &Menu{
		places:     append([]Place(nil), places...),
		index:      make(map[string]int, len(places)),
		teleporter: teleporter,
	}
	for i, p := range m.places {
		if _, dup := m.index[p.Name]; !dup {
			m.index[p.Name] = i
		}
	}
	return m
}

func (m *Menu) Open()        { m.open = true }
func (m *Menu) Close()       { m.open = false }
func (m *Menu) IsOpen() bool { return m.open }

func (m *Menu) Toggle() {
	m.open = !m.open
}

func (m *Menu) Places() []Place {
	return append([]Place(nil), m.places...)
}

func (m *Menu) Lookup(name string) (Place, bool) {
	i, ok := m.index[name]
	if !ok {
		return Place{}, false
	}
	return m.places[i], true
}

// Select teleports to the named place. The menu is closed whether or not the
// place exists.
func (m *Menu) Select(name string) error {
	defer m.Close()

	place, ok := m.Lookup(name)
	if !ok {
		slog.Warn("Fast travel target not found", "component", "travel", "place", name)
		return fmt.Errorf("select %q: %w", name, ErrUnknownPlace)
	}
	if m.teleporter == nil {
		return fmt.Errorf("select %q: no teleporter", name)
	}
	slog.Info("Fast travel", "component", "travel", "place", place.Name)
	m.teleporter.TeleportFrom(event.SourceTravel, place)
	return nil
}

// SelectIndex selects by 1-based position, matching the numbered menu.
func (m *Menu) SelectIndex(n int) error {
	if n < 1 || n > len(m.places) {
		m.Close()
		return fmt.Errorf("select #%d: %w", n, ErrUnknownPlace)
	}
	return m.Select(m.places[n-1].Name)
}
