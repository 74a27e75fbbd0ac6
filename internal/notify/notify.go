// Package notify provides desktop notifications via D-Bus.
package notify

import (
	"fmt"
	"sync"

	"github.com/llehouerou/chorus/internal/identify"
)

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

const lockTimeout = 5000 // ms

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// TrackNotifier announces locked tracks, replacing its previous notification
// so repeated resyncs do not stack up.
type TrackNotifier struct {
	notifier Notifier

	mu     sync.Mutex
	lastID uint32
}

// NewTrackNotifier wraps n.
func NewTrackNotifier(n Notifier) *TrackNotifier {
	return &TrackNotifier{notifier: n}
}

// Locked shows the track that detection locked onto.
func (t *TrackNotifier) Locked(track identify.Track, hasLyrics bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, err := t.notifier.Notify(ForTrack(track, hasLyrics, t.lastID))
	if err != nil {
		return err
	}
	if id != 0 {
		t.lastID = id
	}
	return nil
}

// Dismiss closes the last notification, if any.
func (t *TrackNotifier) Dismiss() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lastID == 0 {
		return nil
	}
	id := t.lastID
	t.lastID = 0
	return t.notifier.Close(id)
}

// ForTrack builds the lock notification for track.
func ForTrack(track identify.Track, hasLyrics bool, replaces uint32) Notification {
	body := track.Artist
	if track.Album != "" {
		body = fmt.Sprintf("%s - %s", track.Artist, track.Album)
	}
	if !hasLyrics {
		body += "\n(no synced lyrics)"
	}
	return Notification{
		Title:      track.Name,
		Body:       body,
		Icon:       "audio-x-generic",
		Timeout:    lockTimeout,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
	}
}
