// Package detect runs the capture and identify cycle that locks onto the
// track currently playing and keeps a synced playback clock for it.
package detect

import (
	"context"
	"errors"
	"time"

	"github.com/llehouerou/chorus/internal/capture"
	"github.com/llehouerou/chorus/internal/identify"
	"github.com/llehouerou/chorus/internal/lyrics"
	"github.com/llehouerou/chorus/internal/syncclock"
)

// ErrClosed is returned by control calls after Close.
var ErrClosed = errors.New("detection service closed")

// Service defines the detection loop contract.
type Service interface {
	// Control
	Start() error
	Stop() error
	Resync() error

	// State queries
	State() State
	Status() string
	Snapshot() Snapshot
	Position() (time.Duration, bool)

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// Recorder captures one sample.
type Recorder interface {
	Record(ctx context.Context, d time.Duration) (capture.Sample, error)
}

// Snapshot is a consistent view of the session.
type Snapshot struct {
	State    State
	Status   string
	Outcome  Outcome
	Message  string // provider message of the last miss
	Track    *identify.Track
	Lyrics   *lyrics.Lyrics
	LockedAt time.Time
	Start    time.Time // estimated song start, zero when unknown
}

// Config holds loop timings.
type Config struct {
	SampleDuration time.Duration
	RetryDelay     time.Duration
	RequestTimeout time.Duration
	Sync           syncclock.Params

	// Now is the wall clock; nil means time.Now.
	Now func() time.Time
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		SampleDuration: capture.DefaultDuration,
		RetryDelay:     time.Second,
		RequestTimeout: 15 * time.Second,
		Sync:           syncclock.DefaultParams(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.SampleDuration <= 0 {
		c.SampleDuration = def.SampleDuration
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = def.RetryDelay
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.Sync.DriftThreshold <= 0 {
		c.Sync.DriftThreshold = def.Sync.DriftThreshold
	}
	if c.Sync.Smoothing <= 0 || c.Sync.Smoothing > 1 {
		c.Sync.Smoothing = def.Sync.Smoothing
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}
