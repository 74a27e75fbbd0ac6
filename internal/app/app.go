// Package app implements the chorus terminal interface.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/chorus/internal/detect"
	"github.com/llehouerou/chorus/internal/identify"
	"github.com/llehouerou/chorus/internal/keymap"
	"github.com/llehouerou/chorus/internal/lastfm"
	"github.com/llehouerou/chorus/internal/notify"
	"github.com/llehouerou/chorus/internal/syncclock"
	"github.com/llehouerou/chorus/internal/ui/helpbindings"
	lyricsui "github.com/llehouerou/chorus/internal/ui/lyrics"
)

// History records locked tracks.
type History interface {
	RecordDetection(ctx context.Context, track identify.Track, lockedAt time.Time) error
}

// Deps are the services the interface drives. Notifier, Lastfm and History
// are optional.
type Deps struct {
	Detect   detect.Service
	Notifier *notify.TrackNotifier
	Lastfm   *lastfm.Client
	History  History

	// EndGrace is how far past the track duration the clock may run before
	// detection resyncs. Zero means syncclock.EndGrace.
	EndGrace time.Duration

	// Now is the wall clock; nil means time.Now.
	Now func() time.Time
}

// Model is the bubbletea model of the application.
type Model struct {
	ctx      context.Context
	Detect   detect.Service
	sub      *detect.Subscription
	notifier *notify.TrackNotifier
	lastfm   *lastfm.Client
	history  History
	endGrace time.Duration
	now      func() time.Time
	keys     *keymap.Resolver

	Width, Height int
	Spinner       spinner.Model
	Lyrics        *lyricsui.Model

	// Help is the key reference box, nil while hidden.
	Help *helpbindings.Model

	snapshot    detect.Snapshot
	position    time.Duration
	hasPosition bool
	ticking     bool
	scrobbled   bool

	// ErrorMsg is the last user-facing error, cleared by the next key press.
	ErrorMsg string
}

// New creates the model and subscribes to detection events.
func New(ctx context.Context, deps Deps) Model {
	if deps.EndGrace <= 0 {
		deps.EndGrace = syncclock.EndGrace
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return Model{
		ctx:      ctx,
		Detect:   deps.Detect,
		sub:      deps.Detect.Subscribe(),
		notifier: deps.Notifier,
		lastfm:   deps.Lastfm,
		history:  deps.History,
		endGrace: deps.EndGrace,
		now:      deps.Now,
		keys:     keymap.NewResolver(keymap.Bindings),
		Spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		Lyrics:   lyricsui.New(),
		snapshot: deps.Detect.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchDetectEvents(), m.Spinner.Tick)
}

// busy reports whether the spinner should be shown.
func (m Model) busy() bool {
	return m.snapshot.State.IsActive() && m.snapshot.State != detect.StateLocked
}
