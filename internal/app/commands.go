package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/chorus/internal/identify"
	"github.com/llehouerou/chorus/internal/lastfm"
	"github.com/llehouerou/chorus/internal/ui"
)

// WatchDetectEvents returns a command that waits for the next detection
// event and converts it to a tea.Msg.
func (m Model) WatchDetectEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return DetectStateMsg(e)
		case e := <-sub.TrackChanged:
			return DetectTrackMsg(e)
		case e := <-sub.Error:
			return DetectErrorMsg(e)
		case <-sub.Done:
			return DetectClosedMsg{}
		}
	}
}

// FrameTickCmd returns a command that sends FrameTickMsg after one frame.
func FrameTickCmd() tea.Cmd {
	return tea.Tick(ui.FrameInterval, func(t time.Time) tea.Msg {
		return FrameTickMsg(t)
	})
}

func (m Model) notifyLockedCmd(track identify.Track, hasLyrics bool) tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	n := m.notifier
	return func() tea.Msg {
		return NotifyResultMsg{Err: n.Locked(track, hasLyrics)}
	}
}

func (m Model) dismissNotificationCmd() tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	n := m.notifier
	return func() tea.Msg {
		return NotifyResultMsg{Err: n.Dismiss()}
	}
}

func (m Model) recordDetectionCmd(track identify.Track) tea.Cmd {
	if m.history == nil {
		return nil
	}
	lockedAt := m.snapshot.LockedAt
	if lockedAt.IsZero() {
		lockedAt = m.now()
	}
	h, ctx := m.history, m.ctx
	return func() tea.Msg {
		return HistoryResultMsg{Err: h.RecordDetection(ctx, track, lockedAt)}
	}
}

func (m Model) nowPlayingCmd(track identify.Track) tea.Cmd {
	if m.lastfm == nil || !m.lastfm.IsAuthenticated() {
		return nil
	}
	return lastfm.UpdateNowPlayingCmd(m.lastfm, lastfm.FromTrack(track, m.snapshot.Start))
}

// scrobbleCmd submits the current track once it has been heard long enough.
func (m *Model) scrobbleCmd() tea.Cmd {
	track := m.snapshot.Track
	if m.scrobbled || track == nil || !m.hasPosition {
		return nil
	}
	if m.lastfm == nil || !m.lastfm.IsAuthenticated() || m.snapshot.Start.IsZero() {
		return nil
	}
	lt := lastfm.FromTrack(*track, m.snapshot.Start)
	if !lt.Scrobbleable(m.position) {
		return nil
	}
	m.scrobbled = true
	return lastfm.ScrobbleCmd(m.lastfm, lt)
}
