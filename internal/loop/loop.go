// Package loop drives the simulation. Each tick runs every EarlyUpdate in
// registration order, then every LateUpdate. All updaters and all posted
// closures execute on the goroutine that calls Run.
package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Versifine/wayfarer/internal/telemetry"
)

type Phased interface {
	EarlyUpdate(dt float64) error
	LateUpdate(dt float64) error
}

type entry struct {
	name    string
	updater Phased
}

type Scheduler struct {
	entries  []entry
	counters *telemetry.Counters
	ticks    uint64
}

func NewScheduler(counters *telemetry.Counters) *Scheduler {
	return &Scheduler{counters: counters}
}

func (s *Scheduler) Add(name string, p Phased) {
	if p == nil {
		return
	}
	s.entries = append(s.entries, entry{name: name, updater: p})
}

func (s *Scheduler) Len() int {
	return len(s.entries)
}

func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Step runs one tick. An updater's error never stops the rest of the tick;
// all errors are joined and returned.
func (s *Scheduler) Step(dt float64) error {
	var errs []error
	for _, e := range s.entries {
		if err := e.updater.EarlyUpdate(dt); err != nil {
			errs = append(errs, fmt.Errorf("%s early update: %w", e.name, err))
		}
	}
	for _, e := range s.entries {
		if err := e.updater.LateUpdate(dt); err != nil {
			errs = append(errs, fmt.Errorf("%s late update: %w", e.name, err))
		}
	}
	s.ticks++
	s.counters.Tick()
	return errors.Join(errs...)
}

// Run ticks at interval until ctx is done. Closures received on events are
// executed before the next tick; afterTick, when non-nil, runs after each one.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, events <-chan func(), afterTick func()) error {
	if interval <= 0 {
		return fmt.Errorf("invalid tick interval %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-events:
			if fn != nil {
				fn()
			}
		case now := <-ticker.C:
			drain(events)
			dt := now.Sub(last).Seconds()
			last = now
			if err := s.Step(dt); err != nil {
				slog.Debug("Tick finished with errors", "component", "loop", "error", err)
			}
			if afterTick != nil {
				afterTick()
			}
		}
	}
}

func drain(events <-chan func()) {
	for {
		select {
		case fn := <-events:
			if fn != nil {
				fn()
			}
		default:
			return
		}
	}
}

// Funcs adapts a pair of functions to Phased; either may be nil.
type Funcs struct {
	Early func(dt float64) error
	Late  func(dt float64) error
}

func (f Funcs) EarlyUpdate(dt float64) error {
	if f.Early == nil {
		return nil
	}
	return f.Early(dt)
}

func (f Funcs) LateUpdate(dt float64) error {
	if f.Late == nil {
		return nil
	}
	return f.Late(dt)
}
