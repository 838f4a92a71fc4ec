package logger

import (
	"encoding/json"
	"sync"
	"time"
)

// Metrics collects counters and timings for a run. Safe for concurrent use.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

// Timing summarizes the durations recorded under one name
type Timing struct {
	Count int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Mean returns the average duration, or zero when nothing was recorded
func (t Timing) Mean() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Count)
}

// MarshalJSON renders durations in their human-readable form ("1.5ms")
func (t Timing) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"count":   t.Count,
		"total":   t.Total.String(),
		"average": t.Mean().String(),
		"min":     t.Min.String(),
		"max":     t.Max.String(),
	})
}

// Snapshot is a point-in-time copy of the metrics
type Snapshot struct {
	Counters map[string]int64  `json:"counters"`
	Timings  map[string]Timing `json:"timings"`
}

// NewMetrics creates an empty metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// IncrCounter increments a counter by 1.
func (m *Metrics) IncrCounter(name string) {
	m.AddCounter(name, 1)
}

// AddCounter adds delta to a counter. If the counter doesn't exist, it starts at 0.
func (m *Metrics) AddCounter(name string, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += delta
}

// Counter returns the current value of a counter
func (m *Metrics) Counter(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// RecordTiming records a duration measurement.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], duration)
}

// Snapshot copies the current counters and summarizes every timing
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Timings:  make(map[string]Timing, len(m.timings)),
	}
	for name, v := range m.counters {
		snap.Counters[name] = v
	}

	for name, durations := range m.timings {
		if len(durations) == 0 {
			continue
		}
		t := Timing{Min: durations[0], Max: durations[0]}
		for _, d := range durations {
			t.Count++
			t.Total += d
			t.Min = min(t.Min, d)
			t.Max = max(t.Max, d)
		}
		snap.Timings[name] = t
	}

	return snap
}
