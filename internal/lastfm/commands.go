package lastfm

import tea "github.com/charmbracelet/bubbletea"

// NowPlayingResultMsg contains the result of updating now playing.
type NowPlayingResultMsg struct {
	Err error
}

// ScrobbleResultMsg contains the result of a scrobble submission.
type ScrobbleResultMsg struct {
	Track string
	Err   error
}

// UpdateNowPlayingCmd sends a now playing update in the background.
func UpdateNowPlayingCmd(client *Client, track Track) tea.Cmd {
	return func() tea.Msg {
		return NowPlayingResultMsg{Err: client.UpdateNowPlaying(track)}
	}
}

// ScrobbleCmd submits a scrobble in the background.
func ScrobbleCmd(client *Client, track Track) tea.Cmd {
	return func() tea.Msg {
		return ScrobbleResultMsg{Track: track.Track, Err: client.Scrobble(track)}
	}
}
