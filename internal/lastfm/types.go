package lastfm

import (
	"time"

	"github.com/shkh/lastfm-go/lastfm"

	"github.com/llehouerou/chorus/internal/identify"
)

// minScrobbleLength is the Last.fm rule: shorter tracks are never scrobbled.
const minScrobbleLength = 30 * time.Second

// Track contains track metadata for Last.fm.
type Track struct {
	Artist    string
	Track     string
	Album     string
	Duration  time.Duration
	Timestamp time.Time // When playback started
}

// FromTrack converts an identified track. start is the estimated song start,
// zero when unknown.
func FromTrack(t identify.Track, start time.Time) Track {
	return Track{
		Artist:    t.Artist,
		Track:     t.Name,
		Album:     t.Album,
		Duration:  t.Duration(),
		Timestamp: start,
	}
}

// Scrobbleable reports whether the track qualifies for a scrobble after
// being heard for played.
func (t Track) Scrobbleable(played time.Duration) bool {
	if t.Duration < minScrobbleLength {
		return false
	}
	return played >= t.Duration/2 || played >= 4*time.Minute
}

func (t Track) params() lastfm.P {
	params := lastfm.P{
		"artist": t.Artist,
		"track":  t.Track,
	}
	if t.Album != "" {
		params["album"] = t.Album
	}
	if t.Duration > 0 {
		params["duration"] = int(t.Duration.Seconds())
	}
	return params
}
