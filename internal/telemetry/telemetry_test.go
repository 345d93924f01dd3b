package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type recordingCounter struct {
	noop.Int64Counter
	total int64
}

func (c *recordingCounter) Add(_ context.Context, incr int64, _ ...metric.AddOption) {
	c.total += incr
}

type recordingMeter struct {
	noop.Meter
	counters map[string]*recordingCounter
	failOn   string
}

func (m *recordingMeter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	if name == m.failOn {
		return nil, errors.New("instrument rejected")
	}
	c := &recordingCounter{}
	m.counters[name] = c
	return c, nil
}

func TestCountersRecord(t *testing.T) {
	m := &recordingMeter{counters: make(map[string]*recordingCounter)}
	c, err := NewWithMeter(m)
	if err != nil {
		t.Fatalf("NewWithMeter: %v", err)
	}

	c.Tick()
	c.Tick()
	c.Teleport("travel")
	c.TeleportFailed("nil target")
	c.Transition("Idling", "Running")

	want := map[string]int64{
		"wayfarer.ticks":                  2,
		"wayfarer.teleports":              1,
		"wayfarer.teleport.failures":      1,
		"wayfarer.locomotion.transitions": 1,
	}
	for name, n := range want {
		got, ok := m.counters[name]
		if !ok {
			t.Fatalf("counter %q not created", name)
		}
		if got.total != n {
			t.Errorf("%s = %d, want %d", name, got.total, n)
		}
	}
}

func TestInstrumentErrorIsWrapped(t *testing.T) {
	m := &recordingMeter{counters: make(map[string]*recordingCounter), failOn: "wayfarer.teleports"}
	if _, err := NewWithMeter(m); err == nil {
		t.Fatal("expected error when instrument creation fails")
	}
}

func TestGlobalNoopAndNilCounters(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New with global provider: %v", err)
	}
	c.Tick()

	var nilCounters *Counters
	nilCounters.Tick()
	nilCounters.Teleport("x")
	nilCounters.TeleportFailed("x")
	nilCounters.Transition("a", "b")
}
