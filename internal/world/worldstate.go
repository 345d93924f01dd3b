package world

import (
	"fmt"
	"sync"
)

// WorldState is the latest published view of the player, written by the
// simulation and read by the console and sandbox.
type WorldState struct {
	position   Position
	locomotion string
	teleports  int
	view       string
	panel      string
	mu         sync.RWMutex
}

type Position struct {
	X     float64
	Y     float64
	Z     float64
	Yaw   float64
	Pitch float64
}

type Snapshot struct {
	Position   Position
	Locomotion string
	Teleports  int
	View       string
	Panel      string
}

func (s Snapshot) String() string {
	locomotion := s.Locomotion
	if locomotion == "" {
		locomotion = "idling"
	}
	view := s.View
	if view == "" {
		view = "follow"
	}
	panel := s.Panel
	if panel == "" {
		panel = "-"
	}
	return fmt.Sprintf(
		"Snapshot [Position: (X: %.2f, Y: %.2f, Z: %.2f, Yaw: %.2f, Pitch: %.2f)] | [State: %s] | [Teleports: %d] | [View: %s] | [Panel: %s]",
		s.Position.X, s.Position.Y, s.Position.Z, s.Position.Yaw, s.Position.Pitch,
		locomotion,
		s.Teleports,
		view,
		panel,
	)
}

func (ws *WorldState) GetState() Snapshot {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return Snapshot{
		Position:   ws.position,
		Locomotion: ws.locomotion,
		Teleports:  ws.teleports,
		View:       ws.view,
		Panel:      ws.panel,
	}
}

func (ws *WorldState) UpdatePosition(pos Position) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.position = pos
}

func (ws *WorldState) UpdateLocomotion(state string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.locomotion = state
}

func (ws *WorldState) RecordTeleport() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.teleports++
}

func (ws *WorldState) UpdateView(view string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.view = view
}

// UpdatePanel records the building whose info panel is visible; "" means none.
func (ws *WorldState) UpdatePanel(building string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.panel = building
}
