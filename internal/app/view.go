package app

import (
	"strings"

	"github.com/llehouerou/chorus/internal/detect"
	"github.com/llehouerou/chorus/internal/keymap"
	"github.com/llehouerou/chorus/internal/ui/headerbar"
	"github.com/llehouerou/chorus/internal/ui/overlay"
	"github.com/llehouerou/chorus/internal/ui/progressbar"
	"github.com/llehouerou/chorus/internal/ui/render"
	"github.com/llehouerou/chorus/internal/ui/styles"
)

const (
	tagline     = "Identify any song and see lyrics in real-time."
	startHint   = "press space to start listening"
	listenTitle = "Listening to your world"
	listenHint  = "Make sure the music is clear and audible"
)

// View renders the whole screen.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}

	info := headerbar.Info{
		Status:   m.snapshot.Status,
		Track:    m.snapshot.Track,
		LockedAt: m.snapshot.LockedAt,
		Now:      m.now(),
	}
	if m.busy() {
		info.Spinner = m.Spinner.View()
	}

	sections := []string{
		headerbar.Render(info, m.Width),
		m.renderBody(),
		m.renderFooter(),
	}
	screen := strings.Join(sections, "\n")
	if m.Help != nil {
		screen = overlay.Center(screen, m.Help.View(), m.Width, m.Height)
	}
	return screen
}

func (m Model) renderBody() string {
	switch {
	case m.snapshot.Track != nil:
		return m.Lyrics.View()
	case m.snapshot.State == detect.StateIdle:
		t := styles.T()
		return m.centered(
			styles.ApplyBoldGradient("Chorus Flow", t.Primary, t.Secondary),
			t.S().Muted.Render(tagline),
			"",
			t.S().Subtle.Render(startHint),
		)
	default:
		t := styles.T()
		return m.centered(
			t.S().Title.Render(listenTitle),
			t.S().Subtle.Render(listenHint),
		)
	}
}

// centered places lines in the middle of the body area.
func (m Model) centered(lines ...string) string {
	height := m.lyricsHeight()
	out := make([]string, height)
	top := max((height-len(lines))/2, 0)
	for i := range out {
		j := i - top
		if j >= 0 && j < len(lines) {
			out[i] = render.Center(lines[j], m.Width)
		} else {
			out[i] = render.Pad("", m.Width)
		}
	}
	return strings.Join(out, "\n")
}

func (m Model) renderFooter() string {
	t := styles.T()

	progress := ""
	if track := m.snapshot.Track; track != nil {
		progress = progressbar.Render(m.position, track.Duration(), m.Width)
	}

	bottom := t.S().Subtle.Render(render.Truncate(keymap.Help(keymap.Bindings), m.Width))
	if m.ErrorMsg != "" {
		bottom = t.S().Error.Render(render.Truncate(m.ErrorMsg, m.Width))
	}

	return strings.Join([]string{
		t.S().Subtle.Render(render.Separator(m.Width)),
		t.S().Muted.Render(progress),
		bottom,
	}, "\n")
}
