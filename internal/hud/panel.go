package hud

import (
	"log/slog"

	"github.com/Versifine/wayfarer/internal/event"
	"github.com/go-gl/mathgl/mgl64"
)

type PanelConfig struct {
	FadeStart    float64 // seconds visible at full alpha
	FadeDuration float64 // seconds to fade out
}

func DefaultPanelConfig() PanelConfig {
	return PanelConfig{FadeStart: 9, FadeDuration: 1}
}

// hideTimer is the delayed hide started by each show. Only one exists at a time.
type hideTimer struct {
	waited float64
	faded  float64
	fading bool
}

// Panel shows building information and hides itself after a delay. It is
// advanced by the simulation tick.
type Panel struct {
	cfg     PanelConfig
	bus     *event.Bus
	visible bool
	text    string
	alpha   float64
	last    *Building
	timer   *hideTimer
}

func NewPanel(cfg PanelConfig, bus *event.Bus) *Panel {
	if cfg.FadeStart < 0 {
		cfg.FadeStart = 0
	}
	if cfg.FadeDuration < 0 {
		cfg.FadeDuration = 0
	}
	return &Panel{cfg: cfg, bus: bus, alpha: 1}
}

// Click toggles the panel for b: clicking the building whose panel is showing
// hides it, any other click shows b.
func (p *Panel) Click(b *Building) {
	if b == nil {
		slog.Warn("Panel click without building", "component", "hud")
		return
	}
	if p.last == b && p.visible {
		p.Hide()
		return
	}
	p.last = b
	p.show(b)
}

func (p *Panel) show(b *Building) {
	p.text = b.InfoText()
	p.visible = true
	p.alpha = 1
	// Replacing the timer drops the previous one.
	p.timer = &hideTimer{}
	slog.Debug("Panel shown", "component", "hud", "building", b.Name)
	p.bus.Publish(event.EventPanelShown, &event.PanelEvent{Building: b.Name})
}

// Hide closes the panel at once and cancels any pending fade.
func (p *Panel) Hide() {
	p.timer = nil
	p.close()
}

func (p *Panel) close() {
	wasVisible := p.visible
	p.visible = false
	p.alpha = 1
	if wasVisible && p.last != nil {
		slog.Debug("Panel hidden", "component", "hud", "building", p.last.Name)
		p.bus.Publish(event.EventPanelHidden, &event.PanelEvent{Building: p.last.Name})
	}
}

func (p *Panel) EarlyUpdate(dt float64) error {
	t := p.timer
	if t == nil || dt <= 0 {
		return nil
	}
	if !t.fading {
		t.waited += dt
		if t.waited < p.cfg.FadeStart {
			return nil
		}
		t.fading = true
		if p.cfg.FadeDuration > 0 {
			return nil
		}
	}
	t.faded += dt
	if p.cfg.FadeDuration > 0 && t.faded < p.cfg.FadeDuration {
		p.alpha = mgl64.Clamp(1-t.faded/p.cfg.FadeDuration, 0, 1)
		return nil
	}
	p.timer = nil
	p.close()
	return nil
}

func (p *Panel) LateUpdate(dt float64) error { return nil }

func (p *Panel) Visible() bool  { return p.visible }
func (p *Panel) Text() string   { return p.text }
func (p *Panel) Alpha() float64 { return p.alpha }

// Current is the building last shown, if the panel is visible.
func (p *Panel) Current() *Building {
	if !p.visible {
		return nil
	}
	return p.last
}
