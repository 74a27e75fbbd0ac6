// Package headerbar renders the status and track header.
package headerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/chorus/internal/identify"
	"github.com/llehouerou/chorus/internal/ui"
	"github.com/llehouerou/chorus/internal/ui/render"
	"github.com/llehouerou/chorus/internal/ui/styles"
)

// Height is the fixed height of the header.
const Height = ui.HeaderHeight

const brand = "Chorus Flow"

// Info is what the header shows.
type Info struct {
	Status   string
	Spinner  string // current spinner frame, empty when not busy
	Track    *identify.Track
	LockedAt time.Time
	Now      time.Time
}

// Render returns the header for the given width.
func Render(info Info, width int) string {
	if width < 20 {
		return ""
	}
	t := styles.T()
	clip := lipgloss.NewStyle().MaxWidth(width)

	var right string
	if info.Track != nil && !info.LockedAt.IsZero() {
		right = t.S().Subtle.Render("locked " + humanize.RelTime(info.LockedAt, info.Now, "ago", "from now"))
	}
	top := render.Row(styles.ApplyBoldGradient(brand, t.Primary, t.Secondary), right, width)

	var second string
	if info.Track != nil {
		second = renderTrack(*info.Track)
	} else {
		second = renderStatus(info)
	}

	lines := []string{
		clip.Render(top),
		clip.Render(second),
		t.S().Subtle.Render(render.Separator(width)),
	}
	return strings.Join(lines, "\n")
}

func renderTrack(track identify.Track) string {
	t := styles.T()
	parts := []string{t.S().Title.Render(render.Sanitize(track.Name))}
	if track.Score != nil {
		parts = append(parts, ScoreBadge(*track.Score))
	}

	byline := render.Sanitize(track.Artist)
	if track.Album != "" {
		byline += " • " + render.Sanitize(track.Album)
	}
	if byline != "" {
		parts = append(parts, t.S().Muted.Render(byline))
	}
	return strings.Join(parts, "  ")
}

func renderStatus(info Info) string {
	t := styles.T()
	status := t.S().Muted.Render(strings.ToUpper(info.Status))
	if info.Spinner == "" {
		return status
	}
	return lipgloss.NewStyle().Foreground(t.Primary).Render(info.Spinner) + " " + status
}

// ScoreBadge renders "NN% Match" colored by confidence.
func ScoreBadge(score int) string {
	t := styles.T()
	return t.S().Badge.
		Background(t.ScoreColor(score)).
		Render(fmt.Sprintf("%d%% MATCH", score))
}
