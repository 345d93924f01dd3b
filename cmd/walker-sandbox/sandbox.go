package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/Versifine/wayfarer/internal/app"
	"github.com/Versifine/wayfarer/internal/debug"
	"github.com/Versifine/wayfarer/internal/hud"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	movePulse   = 0.18 // seconds
	lookStep    = 50.0
	clickRadius = 4.0 // blocks
	statusRows  = 3
)

var headingGlyphs = []rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

var (
	styleWall     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFloor    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Dim(true)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBuilding = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	stylePlace    = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenu     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// projection maps screen cells to world XZ. Screen up is +Z and a terminal
// cell is about twice as tall as it is wide.
type projection struct {
	center mgl64.Vec3
	perRow float64
	width  int
	height int
}

func (p projection) perCol() float64 { return p.perRow / 2 }

func (p projection) toScreen(v mgl64.Vec3) (int, int) {
	col := float64(p.width)/2 + (v.X()-p.center.X())/p.perCol()
	row := float64(p.height)/2 - (v.Z()-p.center.Z())/p.perRow
	return int(math.Floor(col)), int(math.Floor(row))
}

func (p projection) toWorld(col, row int) mgl64.Vec3 {
	x := p.center.X() + (float64(col)+0.5-float64(p.width)/2)*p.perCol()
	z := p.center.Z() - (float64(row)+0.5-float64(p.height)/2)*p.perRow
	return mgl64.Vec3{x, p.center.Y(), z}
}

type sandbox struct {
	sim    *app.App
	screen tcell.Screen
	pulses *debug.Pulses
	quit   func()

	pressed bool
	moved   bool
	pressX  int
	pressY  int
	message string
}

func newSandbox(sim *app.App, screen tcell.Screen, quit func()) *sandbox {
	return &sandbox{
		sim:    sim,
		screen: screen,
		pulses: debug.NewPulses(sim.Body.Actions(), movePulse),
		quit:   quit,
	}
}

// handle runs on the simulation goroutine.
func (s *sandbox) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		s.handleKey(ev)
	case *tcell.EventMouse:
		s.handleMouse(ev)
	case *tcell.EventResize:
		s.screen.Sync()
	}
}

func (s *sandbox) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		if s.quit != nil {
			s.quit()
		}
	case tcell.KeyUp:
		s.pulses.Look(mgl64.Vec2{0, lookStep})
	case tcell.KeyDown:
		s.pulses.Look(mgl64.Vec2{0, -lookStep})
	case tcell.KeyLeft:
		s.pulses.Look(mgl64.Vec2{-lookStep, 0})
	case tcell.KeyRight:
		s.pulses.Look(mgl64.Vec2{lookStep, 0})
	case tcell.KeyRune:
		s.handleRune(ev.Rune())
	}
}

func (s *sandbox) handleRune(r rune) {
	switch r {
	case 'w', 'W':
		s.pulses.Forward()
	case 's', 'S':
		s.pulses.Backward()
	case 'a', 'A':
		s.pulses.Left()
	case 'd', 'D':
		s.pulses.Right()
	case ']':
		s.pulses.SprintPress()
	case '[':
		s.pulses.SprintRelease()
	case 'x', 'X':
		s.pulses.Clear()
	case 'c', 'C':
		if s.sim.Views.Toggle() == hud.Overhead {
			s.sim.Views.SetCenter(s.sim.Body.Position())
		}
	case '+', '=':
		s.sim.Views.Zoom(1)
	case '-', '_':
		s.sim.Views.Zoom(-1)
	case 'm', 'M':
		s.sim.Travel.Toggle()
	case 'i', 'I':
		if b, ok := s.sim.Buildings.At(s.sim.Body.Position(), clickRadius); ok {
			s.sim.Panel.Click(b)
		} else {
			s.message = "no building nearby"
		}
	default:
		if r >= '1' && r <= '9' {
			s.travel(int(r - '0'))
		}
	}
}

func (s *sandbox) travel(n int) {
	if err := s.sim.Travel.SelectIndex(n); err != nil {
		s.message = err.Error()
		return
	}
	s.message = ""
}

func (s *sandbox) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	views := s.sim.Views

	if buttons&tcell.WheelUp != 0 {
		views.Zoom(1)
	}
	if buttons&tcell.WheelDown != 0 {
		views.Zoom(-1)
	}

	vx, vy := s.viewport(x, y)
	switch {
	case buttons&tcell.Button1 != 0 && !s.pressed:
		s.pressed, s.moved = true, false
		s.pressX, s.pressY = x, y
		views.BeginDrag(vx, vy)
	case buttons&tcell.Button1 != 0:
		if x != s.pressX || y != s.pressY {
			s.moved = true
		}
		views.DragTo(vx, vy)
	case s.pressed:
		s.pressed = false
		views.EndDrag()
		if !s.moved {
			s.click(x, y)
		}
	}
}

func (s *sandbox) click(x, y int) {
	if y >= s.mapHeight() {
		return
	}
	p := s.projection().toWorld(x, y)
	if b, ok := s.sim.Buildings.At(p, clickRadius); ok {
		s.sim.Panel.Click(b)
	}
}

// viewport converts a cell to viewport coordinates with y pointing up.
func (s *sandbox) viewport(x, y int) (float64, float64) {
	w, _ := s.screen.Size()
	h := s.mapHeight()
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return float64(x) / float64(w), 1 - float64(y)/float64(h)
}

func (s *sandbox) mapHeight() int {
	_, h := s.screen.Size()
	return max(h-statusRows, 0)
}

func (s *sandbox) projection() projection {
	w, _ := s.screen.Size()
	h := s.mapHeight()
	p := projection{center: s.sim.Body.Position(), perRow: 1, width: w, height: h}
	if s.sim.Views.Active() == hud.Overhead && h > 0 {
		p.center = s.sim.Views.Center()
		p.perRow = 2 * s.sim.Views.Size() / float64(h)
	}
	return p
}

// render draws one frame after each tick.
func (s *sandbox) render() {
	s.screen.Clear()
	proj := s.projection()
	s.drawGrid(proj)
	s.drawMarkers(proj)
	s.drawPlayer(proj)
	s.drawMenu()
	s.drawStatus()
	s.screen.Show()
}

func (s *sandbox) drawGrid(proj projection) {
	grid := s.sim.Grid
	feet := int(math.Floor(s.sim.Body.Position().Y()))
	for row := 0; row < proj.height; row++ {
		for col := 0; col < proj.width; col++ {
			p := proj.toWorld(col, row)
			x, z := int(math.Floor(p.X())), int(math.Floor(p.Z()))
			switch {
			case grid.IsSolid(x, feet, z) || grid.IsSolid(x, feet+1, z):
				s.screen.SetContent(col, row, '#', nil, styleWall)
			case grid.IsSolid(x, feet-1, z):
				s.screen.SetContent(col, row, '.', nil, styleFloor)
			}
		}
	}
}

func (s *sandbox) drawMarkers(proj projection) {
	for i, place := range s.sim.Travel.Places() {
		if i >= 9 {
			break
		}
		col, row := proj.toScreen(place.Location)
		s.setMapCell(proj, col, row, rune('1'+i), stylePlace)
	}
	for _, b := range s.sim.Buildings.All() {
		col, row := proj.toScreen(b.Location)
		letter := 'B'
		if b.Name != "" {
			letter = []rune(b.Name)[0]
		}
		s.setMapCell(proj, col, row, letter, styleBuilding)
	}
}

func (s *sandbox) drawPlayer(proj projection) {
	col, row := proj.toScreen(s.sim.Body.Position())
	s.setMapCell(proj, col, row, headingGlyph(s.sim.Body.Rig().BodyRotation()), stylePlayer)
}

func (s *sandbox) setMapCell(proj projection, col, row int, r rune, style tcell.Style) {
	if col < 0 || row < 0 || col >= proj.width || row >= proj.height {
		return
	}
	s.screen.SetContent(col, row, r, nil, style)
}

func (s *sandbox) drawMenu() {
	if !s.sim.Travel.IsOpen() {
		return
	}
	drawText(s.screen, 0, 0, " Fast travel ", styleMenu)
	for i, place := range s.sim.Travel.Places() {
		if i >= 9 {
			break
		}
		drawText(s.screen, 0, i+1, fmt.Sprintf(" %d. %s ", i+1, place.Name), styleMenu)
	}
}

func (s *sandbox) drawStatus() {
	top := s.mapHeight()
	snap := s.sim.World.GetState()
	drawText(s.screen, 0, top, snap.String(), styleStatus)

	views := s.sim.Views
	line := fmt.Sprintf("view:%s", views.Active())
	if views.Active() == hud.Overhead {
		line += fmt.Sprintf(" size:%.1f", views.Size())
	}
	line += " | WASD move, arrows look, ] sprint, c view, +/- zoom, m places, i info, Esc quit"
	drawText(s.screen, 0, top+1, line, styleStatus)

	panel := s.sim.Panel
	switch {
	case panel.Visible():
		style := styleStatus
		if panel.Alpha() < 0.5 {
			style = style.Dim(true)
		}
		drawText(s.screen, 0, top+2, strings.ReplaceAll(panel.Text(), "\n\n", " | "), style)
	case s.message != "":
		drawText(s.screen, 0, top+2, s.message, styleStatus)
	}
}

// headingGlyph picks the arrow closest to the body's facing on the XZ plane.
func headingGlyph(rot mgl64.Quat) rune {
	f := rot.Rotate(mgl64.Vec3{0, 0, 1})
	angle := mgl64.RadToDeg(math.Atan2(f.X(), f.Z()))
	idx := int(math.Round(angle/45)) % len(headingGlyphs)
	if idx < 0 {
		idx += len(headingGlyphs)
	}
	return headingGlyphs[idx]
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	w, h := screen.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range text {
		if x >= w {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
