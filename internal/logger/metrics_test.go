package logger

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("images.reported")
	m.IncrCounter("images.reported")
	m.AddCounter("images.reported", 3)

	if got := m.Snapshot().Counters["images.reported"]; got != 5 {
		t.Errorf("snapshot counter = %v, want 5", got)
	}
	if m.Counter("images.reported") != 5 {
		t.Errorf("Counter() = %v, want 5", m.Counter("images.reported"))
	}
	if m.Counter("missing") != 0 {
		t.Errorf("Counter(missing) = %v, want 0", m.Counter("missing"))
	}
}

func TestMetrics_SnapshotIsCopy(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("runs.aborted")

	snap := m.Snapshot()
	m.IncrCounter("runs.aborted")

	if snap.Counters["runs.aborted"] != 1 {
		t.Errorf("snapshot changed after later updates: %v", snap.Counters["runs.aborted"])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("run.duration", 100*time.Millisecond)
	m.RecordTiming("run.duration", 200*time.Millisecond)
	m.RecordTiming("run.duration", 150*time.Millisecond)

	timing, ok := m.Snapshot().Timings["run.duration"]
	if !ok {
		t.Fatal("run.duration missing from snapshot")
	}

	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"min", timing.Min, 100 * time.Millisecond},
		{"max", timing.Max, 200 * time.Millisecond},
		{"total", timing.Total, 450 * time.Millisecond},
		{"mean", timing.Mean(), 150 * time.Millisecond},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if timing.Count != 3 {
		t.Errorf("Count = %d, want 3", timing.Count)
	}
}

func TestTiming_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Timing{Count: 2, Total: 3 * time.Millisecond, Min: time.Millisecond, Max: 2 * time.Millisecond})
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}

	for _, want := range []string{`"count":2`, `"total":"3ms"`, `"average":"1.5ms"`, `"min":"1ms"`, `"max":"2ms"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}
}

func TestTiming_MeanEmpty(t *testing.T) {
	if got := (Timing{}).Mean(); got != 0 {
		t.Errorf("Mean() = %v, want 0", got)
	}
}
