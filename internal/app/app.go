// Package app assembles the simulation from configuration so the console and
// the sandbox share one wiring.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Versifine/wayfarer/internal/body"
	"github.com/Versifine/wayfarer/internal/camera"
	"github.com/Versifine/wayfarer/internal/config"
	"github.com/Versifine/wayfarer/internal/event"
	"github.com/Versifine/wayfarer/internal/hud"
	"github.com/Versifine/wayfarer/internal/input"
	"github.com/Versifine/wayfarer/internal/locomotion"
	"github.com/Versifine/wayfarer/internal/loop"
	"github.com/Versifine/wayfarer/internal/physics"
	"github.com/Versifine/wayfarer/internal/telemetry"
	"github.com/Versifine/wayfarer/internal/teleport"
	"github.com/Versifine/wayfarer/internal/travel"
	"github.com/Versifine/wayfarer/internal/world"
	"github.com/go-gl/mathgl/mgl64"
)

const eventQueueSize = 64

type App struct {
	Config    *config.Config
	Bus       *event.Bus
	Counters  *telemetry.Counters
	Grid      *world.Grid
	World     *world.WorldState
	Token     *teleport.Token
	Body      *body.Body
	Teleport  *teleport.Coordinator
	Travel    *travel.Menu
	Buildings *hud.Directory
	Panel     *hud.Panel
	Views     *hud.Views
	Scheduler *loop.Scheduler

	events   chan func()
	attached bool
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	bodyCfg, err := BodyConfig(cfg)
	if err != nil {
		return nil, err
	}
	counters, err := telemetry.New()
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	a := &App{
		Config:   cfg,
		Bus:      event.NewBus(),
		Counters: counters,
		World:    &world.WorldState{},
		Token:    teleport.NewToken(),
		events:   make(chan func(), eventQueueSize),
	}
	a.Grid = BuildGrid(cfg.Level)
	a.Body = body.New(bodyCfg, a.Token, a.Grid, a.World, a.Bus, a.Counters)
	a.Teleport = teleport.NewCoordinator(a.Token, a.Body.Controller(), a.Bus, a.Counters)
	a.Travel = travel.NewMenu(Places(cfg.Places), a.Teleport)
	a.Buildings = hud.NewDirectory(Buildings(cfg.Buildings))
	a.Panel = hud.NewPanel(hud.PanelConfig{
		FadeStart:    cfg.Panel.FadeStart,
		FadeDuration: cfg.Panel.FadeDuration,
	}, a.Bus)
	a.Views = hud.NewViews(hud.OverheadConfig{
		StartSize: cfg.Overhead.StartSize,
		MinZoom:   cfg.Overhead.MinZoom,
		MaxZoom:   cfg.Overhead.MaxZoom,
		ZoomSpeed: cfg.Overhead.ZoomSpeed,
	}, a.Bus)
	a.Scheduler = loop.NewScheduler(a.Counters)

	a.subscribe()
	slog.Info("Simulation assembled",
		"component", "app",
		"solid_blocks", a.Grid.SolidCount(),
		"places", len(cfg.Places),
		"buildings", len(cfg.Buildings),
	)
	return a, nil
}

func (a *App) subscribe() {
	a.Bus.Subscribe(event.EventTeleportEnd, event.TeleportEventHandler)
	a.Bus.Subscribe(event.EventTeleportEnd, func(raw any) {
		te, ok := raw.(*event.TeleportEvent)
		if !ok || !te.OK {
			return
		}
		a.World.RecordTeleport()
		a.Body.Sync()
	})
	a.Bus.Subscribe(event.EventPanelShown, func(raw any) {
		if pe, ok := raw.(*event.PanelEvent); ok {
			a.World.UpdatePanel(pe.Building)
		}
	})
	a.Bus.Subscribe(event.EventPanelHidden, func(any) {
		a.World.UpdatePanel("")
	})
	a.Bus.Subscribe(event.EventViewChanged, func(raw any) {
		if ve, ok := raw.(*event.ViewEvent); ok {
			a.World.UpdateView(ve.View)
		}
	})
}

// Attach registers the tick order: inputs first, then the panel, then the
// body. Later calls are ignored.
func (a *App) Attach(inputs ...loop.Phased) {
	if a.attached {
		return
	}
	a.attached = true
	for i, in := range inputs {
		a.Scheduler.Add(fmt.Sprintf("input%d", i), in)
	}
	a.Scheduler.Add("panel", a.Panel)
	a.Scheduler.Add("body", a.Body)
}

// Post queues fn to run on the simulation goroutine before the next tick.
func (a *App) Post(ctx context.Context, fn func()) bool {
	select {
	case a.events <- fn:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run attaches with no extra inputs if needed and blocks until ctx is done.
func (a *App) Run(ctx context.Context, afterTick func()) error {
	a.Attach()
	slog.Info("Simulation running", "component", "app", "interval", a.Config.Tick.Interval())
	err := a.Scheduler.Run(ctx, a.Config.Tick.Interval(), a.events, afterTick)
	a.Body.Disable()
	slog.Info("Simulation stopped", "component", "app", "ticks", a.Scheduler.Ticks())
	return err
}

func BodyConfig(cfg *config.Config) (body.Config, error) {
	mode, err := input.ParseSprintMode(cfg.Input.SprintMode)
	if err != nil {
		return body.Config{}, fmt.Errorf("input: %w", err)
	}
	return body.Config{
		Spawn: mgl64.Vec3(config.Vec3(cfg.Body.Spawn)),
		Shape: physics.Shape{
			Width:  cfg.Body.Width,
			Depth:  cfg.Body.Depth,
			Height: cfg.Body.Height,
		},
		SprintMode: mode,
		Locomotion: locomotion.Config{
			Run: locomotion.Tier{
				Acceleration: cfg.Movement.RunAcceleration,
				SpeedClamp:   cfg.Movement.RunSpeedClamp,
			},
			Sprint: locomotion.Tier{
				Acceleration: cfg.Movement.SprintAcceleration,
				SpeedClamp:   cfg.Movement.SprintSpeedClamp,
			},
			Drag:            cfg.Movement.Drag,
			MovingThreshold: cfg.Movement.MovingThreshold,
		},
		Camera: camera.Config{
			SenseH:     cfg.Camera.SenseH,
			SenseV:     cfg.Camera.SenseV,
			LookLimitV: cfg.Camera.LookLimitV,
		},
		BlendSpeed: cfg.Animation.BlendSpeed,
	}, nil
}

func BuildGrid(level config.LevelConfig) *world.Grid {
	g := world.NewGrid(world.Bounds{MinY: level.MinY, Height: level.Height})
	for _, box := range level.Boxes {
		g.Fill(world.Box{Min: config.Int3(box.Min), Max: config.Int3(box.Max)}, true)
	}
	return g
}

func Places(cfgs []config.PlaceConfig) []travel.Place {
	places := make([]travel.Place, 0, len(cfgs))
	for _, p := range cfgs {
		places = append(places, travel.Place{Name: p.Name, Location: config.Vec3(p.Position)})
	}
	return places
}

func Buildings(cfgs []config.BuildingConfig) []hud.Building {
	buildings := make([]hud.Building, 0, len(cfgs))
	for _, b := range cfgs {
		buildings = append(buildings, hud.Building{
			Name:        b.Name,
			Information: b.Information,
			Email:       b.Email,
			Location:    config.Vec3(b.Position),
		})
	}
	return buildings
}
