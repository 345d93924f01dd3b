// Package telemetry holds the OpenTelemetry counters the simulation records.
// Instruments come from the global meter provider, which is a no-op unless the
// embedding program installs one.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Versifine/wayfarer/internal/telemetry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Counters is safe to use through a nil pointer; every method is then a no-op.
type Counters struct {
	ticks            metric.Int64Counter
	teleports        metric.Int64Counter
	teleportFailures metric.Int64Counter
	transitions      metric.Int64Counter
}

func New() (*Counters, error) {
	return NewWithMeter(meter())
}

func NewWithMeter(m metric.Meter) (*Counters, error) {
	c := &Counters{}
	var err error

	c.ticks, err = m.Int64Counter(
		"wayfarer.ticks",
		metric.WithDescription("Simulation ticks executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	c.teleports, err = m.Int64Counter(
		"wayfarer.teleports",
		metric.WithDescription("Teleport requests that relocated the body"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating teleports counter: %w", err)
	}

	c.teleportFailures, err = m.Int64Counter(
		"wayfarer.teleport.failures",
		metric.WithDescription("Teleport requests skipped or rejected"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating teleport failures counter: %w", err)
	}

	c.transitions, err = m.Int64Counter(
		"wayfarer.locomotion.transitions",
		metric.WithDescription("Locomotion state changes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transitions counter: %w", err)
	}

	return c, nil
}

func (c *Counters) Tick() {
	if c == nil {
		return
	}
	c.ticks.Add(context.Background(), 1)
}

func (c *Counters) Teleport(source string) {
	if c == nil {
		return
	}
	c.teleports.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("source", source)))
}

func (c *Counters) TeleportFailed(reason string) {
	if c == nil {
		return
	}
	c.teleportFailures.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reason", reason)))
}

func (c *Counters) Transition(from, to string) {
	if c == nil {
		return
	}
	c.transitions.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("from", from),
			attribute.String("to", to),
		))
}
