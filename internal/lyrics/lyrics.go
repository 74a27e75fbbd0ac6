// Package lyrics provides lyrics parsing, line resolution and sourcing.
package lyrics

import "time"

// Line represents a single timestamped lyric line.
type Line struct {
	Time time.Duration
	Text string
}

// Lyrics is an ordered, immutable lyric sequence.
type Lyrics struct {
	Lines []Line
}

// Len returns the number of lines.
func (l *Lyrics) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Lines)
}

// LineAt returns the index of the last line whose time is at or before pos.
// Returns -1 if there are no lines or pos precedes all of them.
//
// Every line is visited: source order is kept even when timestamps are not
// strictly increasing.
func (l *Lyrics) LineAt(pos time.Duration) int {
	if l == nil {
		return -1
	}
	idx := -1
	for i, line := range l.Lines {
		if line.Time <= pos {
			idx = i
		}
	}
	return idx
}
