// Package capture records fixed-duration audio samples for identification.
package capture

import (
	"context"
	"errors"
	"time"
)

// DefaultDuration is the nominal length of a sample.
const DefaultDuration = 12 * time.Second

// ErrEmptySample is returned when a recording produced no audio.
var ErrEmptySample = errors.New("empty sample")

// Sample is a finite audio capture, consumed once by identification.
type Sample struct {
	Data     []byte
	MIMEType string
	Duration time.Duration
}

// Empty reports whether the sample carries no audio.
func (s Sample) Empty() bool {
	return len(s.Data) == 0
}

// Recorder records a sample of the given duration.
// Record blocks until the duration has elapsed or ctx is done.
type Recorder interface {
	Record(ctx context.Context, d time.Duration) (Sample, error)
	Close() error
}
