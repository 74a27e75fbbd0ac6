// Package lyrics provides the synchronized lyrics view.
package lyrics

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/chorus/internal/lyrics"
	"github.com/llehouerou/chorus/internal/ui"
	"github.com/llehouerou/chorus/internal/ui/render"
	"github.com/llehouerou/chorus/internal/ui/styles"
)

const (
	placeholderTitle = "Lyrics are on their way..."
	placeholderHint  = "We're syncing the words to the beat"
)

// Model holds the state for the lyrics view.
type Model struct {
	ui.Base
	lyrics       *lyrics.Lyrics
	currentLine  int
	scrollOffset int
	autoScroll   bool
}

// New creates an empty lyrics view.
func New() *Model {
	return &Model{currentLine: -1, autoScroll: true}
}

// SetLyrics replaces the displayed lyrics. nil shows the placeholder.
func (m *Model) SetLyrics(l *lyrics.Lyrics) {
	m.lyrics = l
	m.currentLine = -1
	m.autoScroll = true
	m.centerCurrentLine()
}

// SetPosition updates the song position and the active line.
func (m *Model) SetPosition(pos time.Duration) {
	newLine := m.lyrics.LineAt(pos)
	if newLine != m.currentLine {
		m.currentLine = newLine
		if m.autoScroll {
			m.centerCurrentLine()
		}
	}
}

// CurrentLine returns the active line index, -1 when none.
func (m *Model) CurrentLine() int {
	return m.currentLine
}

// AutoScroll reports whether the view follows the active line.
func (m *Model) AutoScroll() bool {
	return m.autoScroll
}

// SetSize sets the view dimensions and re-centers when following.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	if m.autoScroll {
		m.centerCurrentLine()
	}
}

// HandleKey handles scrolling keys. Returns false for keys it does not use.
func (m *Model) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "j", "down":
		m.autoScroll = false
		m.scrollOffset = min(m.scrollOffset+1, m.maxScroll())
	case "k", "up":
		m.autoScroll = false
		m.scrollOffset = max(m.scrollOffset-1, m.minScroll())
	case "g":
		m.autoScroll = false
		m.scrollOffset = m.minScroll()
	case "G":
		m.autoScroll = false
		m.scrollOffset = m.maxScroll()
	case "c":
		m.autoScroll = true
		m.centerCurrentLine()
	default:
		return false
	}
	return true
}

// centerCurrentLine puts the active line, or the first line when none is
// active yet, in the middle of the view.
func (m *Model) centerCurrentLine() {
	m.scrollOffset = max(m.currentLine, 0) - m.visibleHeight()/2
}

// Scrolling may leave half a screen of blank space on either side so the
// first and last lines can sit in the middle.
func (m *Model) minScroll() int {
	return -m.visibleHeight() / 2
}

func (m *Model) maxScroll() int {
	return max(m.lyrics.Len()-1-m.visibleHeight()/2, m.minScroll())
}

func (m *Model) visibleHeight() int {
	return max(m.Height(), ui.MinLyricsHeight)
}

// View renders the visible window of lines.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	if m.lyrics.Len() == 0 {
		return m.renderPlaceholder()
	}

	height := m.visibleHeight()
	lines := make([]string, height)
	for row := range height {
		idx := m.scrollOffset + row
		if idx < 0 || idx >= m.lyrics.Len() {
			lines[row] = render.Pad("", m.Width())
			continue
		}
		text := render.Truncate(m.lyrics.Lines[idx].Text, m.Width())
		lines[row] = render.Center(m.lineStyle(idx).Render(text), m.Width())
	}
	return strings.Join(lines, "\n")
}

// lineStyle dims lines by their place relative to the active one: sung lines
// are faint, the next line is bright, later lines fade out.
func (m *Model) lineStyle(idx int) lipgloss.Style {
	t := styles.T()
	switch {
	case idx == m.currentLine:
		return t.S().Active
	case idx < m.currentLine:
		return t.S().Subtle
	case idx == m.currentLine+1:
		return t.S().Base
	default:
		return lipgloss.NewStyle().Foreground(t.Fade(idx-m.currentLine, ui.FadeDistance))
	}
}

func (m *Model) renderPlaceholder() string {
	t := styles.T()
	height := m.visibleHeight()
	lines := make([]string, height)
	for i := range lines {
		lines[i] = render.Pad("", m.Width())
	}
	mid := height / 2
	lines[max(mid-1, 0)] = render.Center(t.S().Title.Render(placeholderTitle), m.Width())
	if mid+1 < height {
		lines[mid+1] = render.Center(t.S().Subtle.Render(placeholderHint), m.Width())
	}
	return strings.Join(lines, "\n")
}
