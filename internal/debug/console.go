package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/Versifine/wayfarer/internal/event"
	"github.com/Versifine/wayfarer/internal/hud"
	"github.com/Versifine/wayfarer/internal/input"
	"github.com/Versifine/wayfarer/internal/teleport"
	"github.com/Versifine/wayfarer/internal/travel"
	"github.com/Versifine/wayfarer/internal/world"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/term"
)

const (
	defaultMovePulse = 0.18 // seconds
	lookStep         = 50.0 // raw look units per arrow press
	renderEvery      = 5
)

type StateProvider interface {
	GetState() world.Snapshot
}

type Teleporter interface {
	TeleportFrom(source event.SourceType, anchor teleport.Anchor)
}

type TravelMenu interface {
	Select(name string) error
	Places() []travel.Place
}

type BuildingDirectory interface {
	Lookup(name string) (*hud.Building, bool)
}

type PanelClicker interface {
	Click(b *hud.Building)
}

type Deps struct {
	Actions    *input.ActionMap
	State      StateProvider
	Teleporter Teleporter
	Travel     TravelMenu
	Buildings  BuildingDirectory
	Panel      PanelClicker
	// Post runs fn on the simulation goroutine.
	Post func(fn func())
}

// Console drives the simulation from a raw-mode terminal. Keys are read on
// their own goroutine and turned into closures for the simulation goroutine;
// pulses and look resets are advanced by the tick.
type Console struct {
	deps   Deps
	out    io.Writer
	pulses *Pulses
	frames int

	mu          sync.Mutex
	commandMode bool
	commandBuf  []rune
	statusWidth int
}

func NewConsole(deps Deps, out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{
		deps:   deps,
		out:    out,
		pulses: NewPulses(deps.Actions, defaultMovePulse),
	}
}

// Start puts stdin in raw mode and reads keys until ctx is done or the user
// quits, in which case quit is called.
func (c *Console) Start(ctx context.Context, quit func()) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.deps.Actions == nil || c.deps.Post == nil {
		return fmt.Errorf("console actions or poster is nil")
	}
	if c.deps.State == nil {
		return fmt.Errorf("console state provider is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	quitting := false
	// The terminal is restored before quit so the process can exit right after.
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
		if quitting && quit != nil {
			quit()
		}
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, arrows look, ] sprint, [ release, : command, Esc quit)\r\n")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if c.handleKey(reader, b) {
			quitting = true
			return nil
		}
	}
}

// handleKey reports whether the user asked to quit.
func (c *Console) handleKey(reader *bufio.Reader, b byte) bool {
	if b == 3 { // Ctrl-C
		return true
	}
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return false
	}

	switch b {
	case ':':
		c.enterCommandMode()
	case 'w', 'W':
		c.post(c.pulses.Forward)
	case 's', 'S':
		c.post(c.pulses.Backward)
	case 'a', 'A':
		c.post(c.pulses.Left)
	case 'd', 'D':
		c.post(c.pulses.Right)
	case ']':
		c.post(c.pulses.SprintPress)
	case '[':
		c.post(c.pulses.SprintRelease)
	case 'x', 'X':
		c.post(c.pulses.Clear)
	case 27:
		// A lone Esc arrives by itself; arrow keys arrive as one burst.
		if reader == nil || reader.Buffered() == 0 {
			return true
		}
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return false
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return false
		}
		switch arrow {
		case 'D': // left
			c.look(mgl64.Vec2{-lookStep, 0})
		case 'C': // right
			c.look(mgl64.Vec2{lookStep, 0})
		case 'A': // up
			c.look(mgl64.Vec2{0, lookStep})
		case 'B': // down
			c.look(mgl64.Vec2{0, -lookStep})
		}
	}
	return false
}

func (c *Console) post(fn func()) {
	c.deps.Post(fn)
}

func (c *Console) look(delta mgl64.Vec2) {
	c.post(func() { c.pulses.Look(delta) })
}

func (c *Console) EarlyUpdate(dt float64) error {
	return c.pulses.EarlyUpdate(dt)
}

func (c *Console) LateUpdate(dt float64) error { return nil }

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.post(func() { c.executeCommand(cmd) })
		}
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

// executeCommand runs on the simulation goroutine.
func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}
	slog.Debug("Console command", "component", "debug", "command", parts[0])

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state", "snap":
		c.printf("[debug] %s", c.deps.State.GetState().String())
	case "tp":
		if len(parts) != 4 {
			c.printf("[debug] usage: :tp <x> <y> <z>")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			c.printf("[debug] invalid tp args")
			return
		}
		if c.deps.Teleporter == nil {
			c.printf("[debug] teleport unavailable")
			return
		}
		c.deps.Teleporter.TeleportFrom(event.SourceConsole, teleport.Point{x, y, z})
		c.printf("[debug] teleported to (%.3f, %.3f, %.3f)", x, y, z)
	case "places":
		if c.deps.Travel == nil {
			c.printf("[debug] fast travel unavailable")
			return
		}
		for i, p := range c.deps.Travel.Places() {
			c.printf("  %d. %s (%.1f, %.1f, %.1f)", i+1, p.Name, p.Location.X(), p.Location.Y(), p.Location.Z())
		}
	case "travel":
		if len(parts) != 2 {
			c.printf("[debug] usage: :travel <place>")
			return
		}
		if c.deps.Travel == nil {
			c.printf("[debug] fast travel unavailable")
			return
		}
		if err := c.deps.Travel.Select(parts[1]); err != nil {
			c.printf("[debug] travel failed: %v", err)
			return
		}
		c.printf("[debug] travelled to %s", parts[1])
	case "info":
		if len(parts) < 2 {
			c.printf("[debug] usage: :info <building>")
			return
		}
		if c.deps.Buildings == nil || c.deps.Panel == nil {
			c.printf("[debug] building info unavailable")
			return
		}
		name := strings.Join(parts[1:], " ")
		b, ok := c.deps.Buildings.Lookup(name)
		if !ok {
			c.printf("[debug] building %q not found", name)
			return
		}
		c.deps.Panel.Click(b)
		c.printf("[debug] %s", strings.ReplaceAll(b.InfoText(), "\n\n", " | "))
	default:
		c.printf("[debug] unknown command: %s", parts[0])
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\r\n", args...)
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  ]: sprint press, [: sprint release\r\n")
	fmt.Fprint(c.out, "  Arrow Left/Right: yaw -/+5\r\n")
	fmt.Fprint(c.out, "  Arrow Up/Down: pitch up/down 5\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode, Esc quit\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :places\r\n")
	fmt.Fprint(c.out, "  :travel <place>\r\n")
	fmt.Fprint(c.out, "  :info <building>\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

// Render redraws the status line every few frames. It runs on the simulation
// goroutine after each tick.
func (c *Console) Render() {
	c.frames++
	if c.frames%renderEvery != 0 {
		return
	}
	c.renderStatusLine()
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	width := c.statusWidth
	c.mu.Unlock()

	snap := c.deps.State.GetState()
	state := snap.Locomotion
	if state == "" {
		state = "idling"
	}

	line := fmt.Sprintf(
		"[MOV:%+.0f,%+.0f SPR:%s %s | YAW:%.1f PIT:%.1f | X:%.2f Y:%.2f Z:%.2f | TP:%d]",
		c.pulses.Movement().X(),
		c.pulses.Movement().Y(),
		boolLabel(c.pulses.SprintHeld()),
		state,
		snap.Position.Yaw,
		snap.Position.Pitch,
		snap.Position.X,
		snap.Position.Y,
		snap.Position.Z,
		snap.Teleports,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
