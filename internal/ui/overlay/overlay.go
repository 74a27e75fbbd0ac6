// Package overlay draws a box on top of an already rendered screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Center places box in the middle of a width x height base view.
// Base lines under the box keep their styling on both sides of it.
func Center(base, box string, width, height int) string {
	boxLines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range boxLines {
		boxWidth = max(boxWidth, ansi.StringWidth(l))
	}
	col := max((width-boxWidth)/2, 0)
	row := max((height-len(boxLines))/2, 0)
	return Compose(base, box, col, row, width)
}

// Compose writes box over base with its top-left corner at (col, row).
// Lines of box that fall outside base are dropped.
func Compose(base, box string, col, row, width int) string {
	baseLines := strings.Split(base, "\n")

	for i, boxLine := range strings.Split(box, "\n") {
		y := row + i
		if y < 0 || y >= len(baseLines) {
			continue
		}
		if ansi.Strip(boxLine) == "" {
			continue
		}
		end := min(col+ansi.StringWidth(boxLine), width)
		visible := ansi.Cut(boxLine, 0, end-col)

		line := baseLines[y]
		if w := ansi.StringWidth(line); w < width {
			line += strings.Repeat(" ", width-w)
		}
		out := ansi.Cut(line, 0, col) + visible
		if end < width {
			out += ansi.Cut(line, end, width)
		}
		baseLines[y] = out
	}

	return strings.Join(baseLines, "\n")
}
