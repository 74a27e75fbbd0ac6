// Package progressbar renders the song position footer.
package progressbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/chorus/internal/ui"
)

var (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// Render renders a block-style progress bar.
// Format: 01:23  ▓▓▓▓▓░░░░░  04:56
//
// The filled portion is clamped to the bar, so a position before zero or past
// the duration still draws a valid bar.
func Render(position, duration time.Duration, width int) string {
	posStr := FormatClock(position)
	durStr := FormatClock(duration)

	fixedWidth := lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth

	if barWidth < ui.MinProgressBarWidth {
		return posStr + " / " + durStr
	}

	filled := int(float64(barWidth) * Ratio(position, duration))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, barWidth-filled)

	return posStr + "  " + bar + "  " + durStr
}

// Ratio returns position / duration clamped to [0, 1].
func Ratio(position, duration time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	return max(0, min(float64(position)/float64(duration), 1))
}

// FormatClock formats a duration as mm:ss. Negative durations show 00:00.
// Minutes wrap at an hour.
func FormatClock(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	m := (d / time.Minute) % 60
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d", m, s)
}
