package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyBoldGradient renders bold text with a horizontal color gradient.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	if text == "" {
		return ""
	}

	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	if len(clusters) == 1 {
		return lipgloss.NewStyle().Foreground(from).Bold(true).Render(text)
	}

	var b strings.Builder
	for i, cluster := range clusters {
		c := Blend(from, to, float64(i)/float64(len(clusters)-1))
		b.WriteString(lipgloss.NewStyle().Foreground(c).Bold(true).Render(cluster))
	}
	return b.String()
}

// Blend returns the color at position t in [0, 1] between from and to.
// Blending is done in HCL color space for perceptually uniform transitions.
func Blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	switch {
	case t <= 0:
		return from
	case t >= 1:
		return to
	}
	c1, _ := colorful.MakeColor(lipglossToColor(from))
	c2, _ := colorful.MakeColor(lipglossToColor(to))
	return lipgloss.Color(c1.BlendHcl(c2, t).Clamped().Hex())
}

// Fade returns the color of a lyric line distance lines away from the
// active one, from FgBase next to it down to FgSubtle at steps and beyond.
func (t *Theme) Fade(distance, steps int) lipgloss.Color {
	if distance < 0 {
		distance = -distance
	}
	if steps <= 1 || distance >= steps {
		return t.FgSubtle
	}
	return Blend(t.FgBase, t.FgSubtle, float64(distance-1)/float64(steps-1))
}

// lipglossToColor converts a lipgloss.Color to a color.Color.
func lipglossToColor(c lipgloss.Color) color.Color {
	hex := string(c)
	if len(hex) == 7 && hex[0] == '#' {
		col, err := colorful.Hex(hex)
		if err == nil {
			return col
		}
	}
	// Fallback for ANSI colors - return a neutral gray
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}
