// Package syncclock estimates when the currently playing track started,
// from repeated noisy (recording end, play offset) observations.
package syncclock

import (
	"math"
	"time"
)

// Defaults for Params.
const (
	DefaultDriftThreshold = 3 * time.Second
	DefaultSmoothing      = 0.3

	// EndGrace is how far past the track duration the local clock may run
	// before playback is considered over (trailing silence, fades).
	EndGrace = 2 * time.Second
)

// Mode describes how an observation changed the estimate.
type Mode int

const (
	// ModeAdopted means there was no prior estimate.
	ModeAdopted Mode = iota
	// ModeSmoothed means the drift was small and was partially applied.
	ModeSmoothed
	// ModeReset means the drift was large and the candidate replaced the estimate.
	ModeReset
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAdopted:
		return "adopted"
	case ModeSmoothed:
		return "smoothed"
	case ModeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Params tunes the smoothing rule.
type Params struct {
	DriftThreshold time.Duration // drift at or above this hard-resets
	Smoothing      float64       // fraction of small drift applied per observation
}

// DefaultParams returns the standard tuning.
func DefaultParams() Params {
	return Params{
		DriftThreshold: DefaultDriftThreshold,
		Smoothing:      DefaultSmoothing,
	}
}

// Next computes the new song-start estimate, in epoch milliseconds, from the
// prior estimate and a fresh candidate. It has no side effects.
func (p Params) Next(prior float64, hasPrior bool, candidate float64) (float64, Mode) {
	if !hasPrior {
		return candidate, ModeAdopted
	}
	drift := candidate - prior
	if math.Abs(drift) < float64(p.DriftThreshold.Milliseconds()) {
		return prior + drift*p.Smoothing, ModeSmoothed
	}
	return candidate, ModeReset
}

// Observation reports what a single Observe call did.
type Observation struct {
	Candidate time.Time
	Drift     time.Duration // zero when Mode is ModeAdopted
	Mode      Mode
	Start     time.Time
}

// Estimator holds the song-start estimate. It is not safe for concurrent use;
// the detection controller owns it.
type Estimator struct {
	params  Params
	startMs float64
	valid   bool
}

// New creates an estimator with no estimate.
func New(params Params) *Estimator {
	return &Estimator{params: params}
}

// Observe folds in one identification: the wall-clock time the recording
// finished and the provider-reported offset into the track at that instant.
func (e *Estimator) Observe(recordingEnd time.Time, playOffset time.Duration) Observation {
	candidate := float64(recordingEnd.UnixMilli()) - float64(playOffset.Milliseconds())
	prior, hadPrior := e.startMs, e.valid

	next, mode := e.params.Next(prior, hadPrior, candidate)
	e.startMs, e.valid = next, true

	obs := Observation{
		Candidate: fromMillis(candidate),
		Mode:      mode,
		Start:     fromMillis(e.startMs),
	}
	if hadPrior {
		obs.Drift = time.Duration((candidate - prior) * float64(time.Millisecond))
	}
	return obs
}

// Start returns the current estimate of when the track began playing.
func (e *Estimator) Start() (time.Time, bool) {
	if !e.valid {
		return time.Time{}, false
	}
	return fromMillis(e.startMs), true
}

// StartMillis returns the raw estimate in epoch milliseconds.
func (e *Estimator) StartMillis() (float64, bool) {
	return e.startMs, e.valid
}

// Position returns the playback position at now.
func (e *Estimator) Position(now time.Time) (time.Duration, bool) {
	if !e.valid {
		return 0, false
	}
	elapsedMs := float64(now.UnixMilli()) - e.startMs
	return time.Duration(elapsedMs * float64(time.Millisecond)), true
}

// Reset clears the estimate.
func (e *Estimator) Reset() {
	e.startMs = 0
	e.valid = false
}

// Ended reports whether pos has run past duration plus EndGrace.
func Ended(pos, duration time.Duration) bool {
	return EndedAfter(pos, duration, EndGrace)
}

// EndedAfter reports whether pos has run past duration plus grace.
func EndedAfter(pos, duration, grace time.Duration) bool {
	return pos > duration+grace
}

func fromMillis(ms float64) time.Time {
	return time.Unix(0, int64(ms*float64(time.Millisecond)))
}
