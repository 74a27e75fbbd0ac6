// Package identify combines audio recognition and lyrics lookup into a
// single identification result.
package identify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/llehouerou/chorus/internal/acrcloud"
	"github.com/llehouerou/chorus/internal/capture"
	"github.com/llehouerou/chorus/internal/lrclib"
	"github.com/llehouerou/chorus/internal/lyrics"
)

// ErrNoSample is returned when identification is requested without audio.
var ErrNoSample = errors.New("no audio sample provided")

// Track is an identified track. Times are integer milliseconds on the wire.
type Track struct {
	Name             string `json:"name"`
	Artist           string `json:"artist"`
	Album            string `json:"album"`
	DurationMs       int64  `json:"durationMs"`
	PlayOffsetMs     int64  `json:"playOffsetMs"`
	SampleDurationMs int64  `json:"sampleDurationMs"`
	Score            *int   `json:"score,omitempty"`
}

// Duration returns the track length.
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationMs) * time.Millisecond
}

// PlayOffset returns the offset into the track at the moment the sample ended.
func (t Track) PlayOffset() time.Duration {
	return time.Duration(t.PlayOffsetMs) * time.Millisecond
}

// Result is the outcome of an identification.
// Lyrics is null when the track was identified but no lyrics were found.
type Result struct {
	Identified bool                 `json:"identified"`
	Message    string               `json:"message,omitempty"`
	Track      *Track               `json:"track,omitempty"`
	Lyrics     *lrclib.LyricsResult `json:"lyrics"`
}

// Synced parses the synced lyrics of the result, or returns nil.
func (r *Result) Synced() *lyrics.Lyrics {
	if r == nil || r.Lyrics == nil || !r.Lyrics.HasSyncedLyrics() {
		return nil
	}
	return lyrics.ParseLRC(r.Lyrics.SyncedLyrics)
}

// Identifier identifies a recorded sample.
type Identifier interface {
	Identify(ctx context.Context, sample capture.Sample) (*Result, error)
}

// Recognizer submits a sample to a recognition provider.
type Recognizer interface {
	Identify(ctx context.Context, sample []byte) (*acrcloud.Match, error)
}

// LyricsFetcher looks up lyrics for a track.
type LyricsFetcher interface {
	Fetch(ctx context.Context, track lyrics.TrackInfo) lyrics.FetchResult
}

// Service identifies samples by calling the providers directly.
type Service struct {
	recognizer Recognizer
	lyrics     LyricsFetcher
}

var _ Identifier = (*Service)(nil)

// NewService creates an identification service.
func NewService(recognizer Recognizer, fetcher LyricsFetcher) *Service {
	return &Service{recognizer: recognizer, lyrics: fetcher}
}

// Identify recognizes the sample and, on a match, fetches its lyrics.
// A miss is a Result with Identified false; only transport failures and
// an empty sample are errors. Lyrics are best effort.
func (s *Service) Identify(ctx context.Context, sample capture.Sample) (*Result, error) {
	if sample.Empty() {
		return nil, ErrNoSample
	}

	match, err := s.recognizer.Identify(ctx, sample.Data)
	if err != nil {
		return nil, fmt.Errorf("recognize sample: %w", err)
	}
	if !match.Identified {
		return &Result{Message: match.Message}, nil
	}

	track := fromMatch(match.Track)
	result := &Result{Identified: true, Track: &track}

	fetched := s.lyrics.Fetch(ctx, lyrics.TrackInfo{
		Artist:   track.Artist,
		Title:    track.Name,
		Album:    track.Album,
		Duration: track.Duration(),
	})
	if fetched.Result == nil {
		logger.Debugf(ctx, "no lyrics for %q by %q: %v", track.Name, track.Artist, fetched.Err)
		return result, nil
	}
	logger.Debugf(ctx, "lyrics for %q from %s", track.Name, fetched.Source)
	result.Lyrics = fetched.Result
	return result, nil
}

func fromMatch(t acrcloud.Track) Track {
	return Track{
		Name:             t.Title,
		Artist:           t.Artist,
		Album:            t.Album,
		DurationMs:       t.Duration.Milliseconds(),
		PlayOffsetMs:     t.PlayOffset.Milliseconds(),
		SampleDurationMs: t.SampleDuration.Milliseconds(),
		Score:            t.Score,
	}
}
