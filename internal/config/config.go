package config

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging   LoggingConfig    `yaml:"logging"`
	Tick      TickConfig       `yaml:"tick"`
	Input     InputConfig      `yaml:"input"`
	Movement  MovementConfig   `yaml:"movement"`
	Camera    CameraConfig     `yaml:"camera"`
	Animation AnimationConfig  `yaml:"animation"`
	Body      BodyConfig       `yaml:"body"`
	Level     LevelConfig      `yaml:"level"`
	Places    []PlaceConfig    `yaml:"places"`
	Buildings []BuildingConfig `yaml:"buildings"`
	Panel     PanelConfig      `yaml:"panel"`
	Overhead  OverheadConfig   `yaml:"overhead"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type TickConfig struct {
	Rate int `yaml:"rate"`
}

func (t TickConfig) Interval() time.Duration {
	if t.Rate <= 0 {
		return time.Second / DefaultTickRate
	}
	return time.Second / time.Duration(t.Rate)
}

type InputConfig struct {
	SprintMode string `yaml:"sprint_mode"`
}

type MovementConfig struct {
	RunAcceleration    float64 `yaml:"run_acceleration"`
	RunSpeedClamp      float64 `yaml:"run_speed_clamp"`
	SprintAcceleration float64 `yaml:"sprint_acceleration"`
	SprintSpeedClamp   float64 `yaml:"sprint_speed_clamp"`
	Drag               float64 `yaml:"drag"`
	MovingThreshold    float64 `yaml:"moving_threshold"`
}

type CameraConfig struct {
	SenseH     float64 `yaml:"sense_h"`
	SenseV     float64 `yaml:"sense_v"`
	LookLimitV float64 `yaml:"look_limit_v"`
}

type AnimationConfig struct {
	BlendSpeed float64 `yaml:"blend_speed"`
}

type BodyConfig struct {
	Spawn  []float64 `yaml:"spawn"`
	Width  float64   `yaml:"width"`
	Depth  float64   `yaml:"depth"`
	Height float64   `yaml:"height"`
}

type LevelConfig struct {
	MinY   int         `yaml:"min_y"`
	Height int         `yaml:"height"`
	Boxes  []BoxConfig `yaml:"boxes"`
}

type BoxConfig struct {
	Min []int `yaml:"min"`
	Max []int `yaml:"max"`
}

type PlaceConfig struct {
	Name     string    `yaml:"name"`
	Position []float64 `yaml:"position"`
}

type BuildingConfig struct {
	Name        string    `yaml:"name"`
	Information string    `yaml:"information"`
	Email       string    `yaml:"email"`
	Position    []float64 `yaml:"position"`
}

type PanelConfig struct {
	FadeStart    float64 `yaml:"fade_start"`
	FadeDuration float64 `yaml:"fade_duration"`
}

type OverheadConfig struct {
	StartSize float64 `yaml:"start_size"`
	MinZoom   float64 `yaml:"min_zoom"`
	MaxZoom   float64 `yaml:"max_zoom"`
	ZoomSpeed float64 `yaml:"zoom_speed"`
}

const DefaultTickRate = 50

var (
	ErrInvalidVector  = errors.New("vector must have exactly 3 components")
	ErrNegativeValue  = errors.New("value must not be negative")
	ErrDuplicateName  = errors.New("duplicate name")
	ErrEmptyName      = errors.New("name must not be empty")
	ErrInvalidZoom    = errors.New("min_zoom must not exceed max_zoom")
	ErrInvalidHeight  = errors.New("level height must be positive")
	ErrUnknownSetting = errors.New("unknown setting")
)

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Tick:    TickConfig{Rate: DefaultTickRate},
		Input:   InputConfig{SprintMode: "hold"},
		Movement: MovementConfig{
			RunAcceleration:    35,
			RunSpeedClamp:      4,
			SprintAcceleration: 50,
			SprintSpeedClamp:   7,
			Drag:               20,
			MovingThreshold:    0.01,
		},
		Camera:    CameraConfig{SenseH: 0.1, SenseV: 0.1, LookLimitV: 89},
		Animation: AnimationConfig{BlendSpeed: 4},
		Body:      BodyConfig{Spawn: []float64{0, 0, 0}, Width: 0.6, Depth: 0.6, Height: 1.8},
		Level:     LevelConfig{MinY: -16, Height: 64},
		Panel:     PanelConfig{FadeStart: 9, FadeDuration: 1},
		Overhead:  OverheadConfig{StartSize: 500, MinZoom: 10, MaxZoom: 50, ZoomSpeed: 10},
	}
}

// Load decodes path over Default and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Input.SprintMode {
	case "", "hold", "toggle":
	default:
		errs = append(errs, fmt.Errorf("input.sprint_mode %q: %w", c.Input.SprintMode, ErrUnknownSetting))
	}
	switch c.Logging.Format {
	case "", "console", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: %w", c.Logging.Format, ErrUnknownSetting))
	}

	nonNegative := map[string]float64{
		"movement.run_acceleration":    c.Movement.RunAcceleration,
		"movement.run_speed_clamp":     c.Movement.RunSpeedClamp,
		"movement.sprint_acceleration": c.Movement.SprintAcceleration,
		"movement.sprint_speed_clamp":  c.Movement.SprintSpeedClamp,
		"movement.drag":                c.Movement.Drag,
		"movement.moving_threshold":    c.Movement.MovingThreshold,
		"animation.blend_speed":        c.Animation.BlendSpeed,
		"panel.fade_start":             c.Panel.FadeStart,
		"panel.fade_duration":          c.Panel.FadeDuration,
		"overhead.zoom_speed":          c.Overhead.ZoomSpeed,
	}
	for _, name := range slices.Sorted(maps.Keys(nonNegative)) {
		v := nonNegative[name]
		if v < 0 || math.IsNaN(v) {
			errs = append(errs, fmt.Errorf("%s=%v: %w", name, v, ErrNegativeValue))
		}
	}
	if c.Overhead.MinZoom > c.Overhead.MaxZoom {
		errs = append(errs, fmt.Errorf("overhead: %w", ErrInvalidZoom))
	}
	if c.Tick.Rate < 0 {
		errs = append(errs, fmt.Errorf("tick.rate=%d: %w", c.Tick.Rate, ErrNegativeValue))
	}
	if c.Level.Height <= 0 {
		errs = append(errs, fmt.Errorf("level.height=%d: %w", c.Level.Height, ErrInvalidHeight))
	}

	if len(c.Body.Spawn) != 3 {
		errs = append(errs, fmt.Errorf("body.spawn: %w", ErrInvalidVector))
	}
	for i, box := range c.Level.Boxes {
		if len(box.Min) != 3 || len(box.Max) != 3 {
			errs = append(errs, fmt.Errorf("level.boxes[%d]: %w", i, ErrInvalidVector))
		}
	}

	seen := make(map[string]bool)
	for i, p := range c.Places {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("places[%d]: %w", i, ErrEmptyName))
		} else if seen[p.Name] {
			errs = append(errs, fmt.Errorf("places[%d] %q: %w", i, p.Name, ErrDuplicateName))
		}
		seen[p.Name] = true
		if len(p.Position) != 3 {
			errs = append(errs, fmt.Errorf("places[%d].position: %w", i, ErrInvalidVector))
		}
	}

	seen = make(map[string]bool)
	for i, b := range c.Buildings {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("buildings[%d]: %w", i, ErrEmptyName))
		} else if seen[b.Name] {
			errs = append(errs, fmt.Errorf("buildings[%d] %q: %w", i, b.Name, ErrDuplicateName))
		}
		seen[b.Name] = true
		if b.Position != nil && len(b.Position) != 3 {
			errs = append(errs, fmt.Errorf("buildings[%d].position: %w", i, ErrInvalidVector))
		}
	}

	return errors.Join(errs...)
}

// Vec3 converts a validated 3-component slice.
func Vec3(v []float64) [3]float64 {
	var out [3]float64
	copy(out[:], v)
	return out
}

// Int3 converts a validated 3-component slice.
func Int3(v []int) [3]int {
	var out [3]int
	copy(out[:], v)
	return out
}
