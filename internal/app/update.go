package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/llehouerou/chorus/internal/detect"
	"github.com/llehouerou/chorus/internal/errmsg"
	"github.com/llehouerou/chorus/internal/keymap"
	"github.com/llehouerou/chorus/internal/lastfm"
	"github.com/llehouerou/chorus/internal/syncclock"
	"github.com/llehouerou/chorus/internal/ui"
	"github.com/llehouerou/chorus/internal/ui/headerbar"
	"github.com/llehouerou/chorus/internal/ui/helpbindings"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Lyrics.SetSize(msg.Width, m.lyricsHeight())
		if m.Help != nil {
			m.Help.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case DetectStateMsg:
		m.snapshot = m.Detect.Snapshot()
		logger.Debugf(m.ctx, "detection %s -> %s (%s)", msg.Previous, msg.Current, msg.Status)
		return m, m.WatchDetectEvents()

	case DetectTrackMsg:
		return m.handleTrackChange(msg)

	case DetectErrorMsg:
		m.snapshot = m.Detect.Snapshot()
		logger.Warnf(m.ctx, "detection %s failed: %v", msg.Operation, msg.Err)
		return m, m.WatchDetectEvents()

	case DetectClosedMsg:
		return m, tea.Quit

	case FrameTickMsg:
		return m.handleFrame()

	case NotifyResultMsg:
		if msg.Err != nil {
			logger.Warnf(m.ctx, "%s: %v", errmsg.OpNotify, msg.Err)
		}
		return m, nil

	case HistoryResultMsg:
		if msg.Err != nil {
			logger.Warnf(m.ctx, "%s: %v", errmsg.OpHistoryRecord, msg.Err)
		}
		return m, nil

	case lastfm.NowPlayingResultMsg:
		if msg.Err != nil {
			logger.Warnf(m.ctx, "%s: %v", errmsg.OpLastfmUpdate, msg.Err)
		}
		return m, nil

	case lastfm.ScrobbleResultMsg:
		if msg.Err != nil {
			logger.Warnf(m.ctx, "%s: %v", errmsg.OpLastfmScrobble, msg.Err)
		} else {
			logger.Infof(m.ctx, "scrobbled %q", msg.Track)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ErrorMsg = ""

	if m.Help != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Help.HandleKey(msg) {
			m.Help = nil
		}
		return m, nil
	}

	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return m, tea.Quit

	case keymap.ActionHelp:
		m.Help = helpbindings.New(keymap.Bindings)
		m.Help.SetSize(m.Width, m.Height)
		return m, nil

	case keymap.ActionToggleDetection:
		if m.snapshot.State == detect.StateIdle {
			if err := m.Detect.Start(); err != nil {
				m.ErrorMsg = errmsg.Format(errmsg.OpDetectStart, err)
			}
		} else if err := m.Detect.Stop(); err != nil {
			m.ErrorMsg = errmsg.Format(errmsg.OpDetectStart, err)
		}
		m.snapshot = m.Detect.Snapshot()
		return m, nil

	case keymap.ActionResync:
		if err := m.Detect.Resync(); err != nil {
			m.ErrorMsg = errmsg.Format(errmsg.OpDetectResync, err)
		}
		m.snapshot = m.Detect.Snapshot()
		return m, nil
	}

	m.Lyrics.HandleKey(msg)
	return m, nil
}

// handleTrackChange swaps the displayed lyrics and announces new locks.
func (m Model) handleTrackChange(msg DetectTrackMsg) (tea.Model, tea.Cmd) {
	// Submit the outgoing track before the snapshot forgets it.
	cmds := []tea.Cmd{m.scrobbleCmd(), m.WatchDetectEvents()}

	m.snapshot = m.Detect.Snapshot()
	m.scrobbled = false
	m.position, m.hasPosition = 0, false
	m.Lyrics.SetLyrics(msg.Lyrics)

	if msg.Current == nil {
		cmds = append(cmds, m.dismissNotificationCmd())
		return m, tea.Batch(cmds...)
	}

	logger.Infof(m.ctx, "locked %q by %q (%s, drift %s)",
		msg.Current.Name, msg.Current.Artist, msg.Observation.Mode, msg.Observation.Drift)
	cmds = append(cmds,
		m.notifyLockedCmd(*msg.Current, msg.Lyrics.Len() > 0),
		m.nowPlayingCmd(*msg.Current),
		m.recordDetectionCmd(*msg.Current),
	)
	m.updatePosition()
	if !m.ticking {
		m.ticking = true
		cmds = append(cmds, FrameTickCmd())
	}
	return m, tea.Batch(cmds...)
}

// handleFrame advances the lyrics and resyncs once the song has run out.
func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	m.snapshot = m.Detect.Snapshot()
	track := m.snapshot.Track
	if track == nil {
		m.ticking = false
		return m, nil
	}

	m.updatePosition()
	cmds := []tea.Cmd{m.scrobbleCmd()}

	if m.hasPosition && track.DurationMs > 0 &&
		syncclock.EndedAfter(m.position, track.Duration(), m.endGrace) {
		logger.Debugf(m.ctx, "%q ended at %s, resyncing", track.Name, m.position)
		if err := m.Detect.Resync(); err != nil {
			m.ErrorMsg = errmsg.Format(errmsg.OpDetectResync, err)
		}
		m.snapshot = m.Detect.Snapshot()
		if m.snapshot.Track == nil {
			m.ticking = false
			return m, tea.Batch(cmds...)
		}
	}

	cmds = append(cmds, FrameTickCmd())
	return m, tea.Batch(cmds...)
}

func (m *Model) updatePosition() {
	m.position, m.hasPosition = m.Detect.Position()
	if m.hasPosition {
		m.Lyrics.SetPosition(m.position)
	}
}

func (m Model) lyricsHeight() int {
	return max(m.Height-headerbar.Height-ui.FooterHeight, ui.MinLyricsHeight)
}
