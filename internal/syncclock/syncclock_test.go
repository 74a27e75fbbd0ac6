package syncclock

import (
	"testing"
	"time"
)

func TestParams_Next(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name      string
		prior     float64
		hasPrior  bool
		candidate float64
		want      float64
		mode      Mode
	}{
		{"no prior adopts candidate", 0, false, 80000, 80000, ModeAdopted},
		{"small positive drift smoothed", 80000, true, 82000, 80600, ModeSmoothed},
		{"small negative drift smoothed", 80000, true, 79000, 79700, ModeSmoothed},
		{"zero drift unchanged", 80000, true, 80000, 80000, ModeSmoothed},
		{"large drift resets", 80600, true, 90000, 90000, ModeReset},
		{"drift at threshold resets", 80000, true, 83000, 83000, ModeReset},
		{"large negative drift resets", 80000, true, 70000, 70000, ModeReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mode := p.Next(tt.prior, tt.hasPrior, tt.candidate)
			if got != tt.want {
				t.Errorf("Next() = %v, want %v", got, tt.want)
			}
			if mode != tt.mode {
				t.Errorf("mode = %v, want %v", mode, tt.mode)
			}
		})
	}
}

func TestEstimator_ObserveSequence(t *testing.T) {
	e := New(DefaultParams())

	obs := e.Observe(time.UnixMilli(100000), 20*time.Second)
	if obs.Mode != ModeAdopted {
		t.Errorf("first mode = %v, want adopted", obs.Mode)
	}
	assertStart(t, e, 80000)

	// candidate 82000
	obs = e.Observe(time.UnixMilli(102000), 20*time.Second)
	if obs.Mode != ModeSmoothed || obs.Drift != 2*time.Second {
		t.Errorf("second observation = %+v, want smoothed with 2s drift", obs)
	}
	assertStart(t, e, 80600)

	// candidate 90000
	obs = e.Observe(time.UnixMilli(110000), 20*time.Second)
	if obs.Mode != ModeReset {
		t.Errorf("third mode = %v, want reset", obs.Mode)
	}
	assertStart(t, e, 90000)
}

func TestEstimator_Idempotent(t *testing.T) {
	e := New(DefaultParams())

	e.Observe(time.UnixMilli(100000), 20*time.Second)
	first, _ := e.StartMillis()
	e.Observe(time.UnixMilli(100000), 20*time.Second)
	second, _ := e.StartMillis()

	if first != second {
		t.Errorf("estimate changed from %v to %v on identical input", first, second)
	}
}

func TestEstimator_Position(t *testing.T) {
	e := New(DefaultParams())

	if _, ok := e.Position(time.UnixMilli(0)); ok {
		t.Error("Position() ok = true before any observation")
	}

	e.Observe(time.UnixMilli(100000), 20*time.Second)

	pos, ok := e.Position(time.UnixMilli(95000))
	if !ok || pos != 15*time.Second {
		t.Errorf("Position() = %v, %v; want 15s, true", pos, ok)
	}

	// recomputed from the clock, not frozen at update time
	pos, _ = e.Position(time.UnixMilli(200000))
	if pos != 120*time.Second {
		t.Errorf("Position() = %v, want 2m0s", pos)
	}
}

func TestEstimator_Reset(t *testing.T) {
	e := New(DefaultParams())
	e.Observe(time.UnixMilli(100000), 20*time.Second)

	e.Reset()

	if _, ok := e.Start(); ok {
		t.Error("Start() ok = true after Reset")
	}

	// next observation is adopted outright
	obs := e.Observe(time.UnixMilli(500000), 0)
	if obs.Mode != ModeAdopted {
		t.Errorf("mode after reset = %v, want adopted", obs.Mode)
	}
	assertStart(t, e, 500000)
}

func TestEnded(t *testing.T) {
	dur := 3 * time.Minute
	tests := []struct {
		pos  time.Duration
		want bool
	}{
		{dur, false},
		{dur + 2*time.Second, false},
		{dur + 2*time.Second + time.Millisecond, true},
		{0, false},
	}
	for _, tt := range tests {
		if got := Ended(tt.pos, dur); got != tt.want {
			t.Errorf("Ended(%v, %v) = %v, want %v", tt.pos, dur, got, tt.want)
		}
	}
}

func assertStart(t *testing.T, e *Estimator, wantMs float64) {
	t.Helper()
	got, ok := e.StartMillis()
	if !ok {
		t.Fatal("no estimate")
	}
	if got != wantMs {
		t.Errorf("estimate = %v, want %v", got, wantMs)
	}
	start, _ := e.Start()
	if start.UnixMilli() != int64(wantMs) {
		t.Errorf("Start() = %v ms, want %v", start.UnixMilli(), wantMs)
	}
}

func TestEndedAfter_CustomGrace(t *testing.T) {
	if EndedAfter(204*time.Second, 200*time.Second, 5*time.Second) {
		t.Error("204s should be within a 5s grace of 200s")
	}
	if !EndedAfter(206*time.Second, 200*time.Second, 5*time.Second) {
		t.Error("206s should be past a 5s grace of 200s")
	}
}
