package detect

import (
	"github.com/llehouerou/chorus/internal/identify"
	"github.com/llehouerou/chorus/internal/lyrics"
	"github.com/llehouerou/chorus/internal/syncclock"
)

// StateChange is emitted when the loop state changes.
type StateChange struct {
	Previous State
	Current  State
	Status   string
}

// TrackChange is emitted when a track is locked, and with a nil Current
// when the track is cleared by Stop or Resync.
type TrackChange struct {
	Current     *identify.Track
	Lyrics      *lyrics.Lyrics
	Observation syncclock.Observation
}

// ErrorEvent is emitted when a cycle fails. The loop retries on its own.
type ErrorEvent struct {
	Operation string // "capture" or "identify"
	Err       error
}
