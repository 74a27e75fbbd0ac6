// Package helpbindings renders the key binding reference shown over the
// lyrics.
package helpbindings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/chorus/internal/keymap"
	"github.com/llehouerou/chorus/internal/ui"
	"github.com/llehouerou/chorus/internal/ui/styles"
)

// categoryOrder defines the display order of binding contexts.
var categoryOrder = []string{"global", "lyrics"}

var categoryLabels = map[string]string{
	"global": "Global",
	"lyrics": "Lyrics",
}

// chrome is the number of rows taken by the border, title and footer.
const chrome = 6

// Model holds the state for the help box.
type Model struct {
	ui.Base
	bindings     []keymap.Binding
	scrollOffset int
}

// New creates a help box listing bindings grouped by context.
func New(bindings []keymap.Binding) *Model {
	m := &Model{}
	for _, ctx := range categoryOrder {
		for _, b := range bindings {
			if b.Context == ctx {
				m.bindings = append(m.bindings, b)
			}
		}
	}
	return m
}

// HandleKey scrolls the box and reports whether the key closes it.
func (m *Model) HandleKey(msg tea.KeyMsg) (closed bool) {
	switch msg.String() {
	case "?", "esc", "q":
		return true
	case "j", "down":
		if m.scrollOffset < m.maxScroll() {
			m.scrollOffset++
		}
	case "k", "up":
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	}
	return false
}

// View renders the bordered box. It is empty until a size is set.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	t := styles.T()

	lines := strings.Split(m.buildContent(), "\n")
	contentWidth := 0
	for _, l := range lines {
		contentWidth = max(contentWidth, lipgloss.Width(l))
	}

	start := min(m.scrollOffset, len(lines))
	end := min(start+m.visibleHeight(), len(lines))
	visible := lines[start:end]

	var sb strings.Builder
	sb.WriteString(t.S().Title.Render("Keys"))
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(visible, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(t.S().Subtle.Render(m.footer()))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(min(contentWidth+2, max(m.Width()-4, 10))).
		Render(sb.String())
}

func (m *Model) buildContent() string {
	t := styles.T()
	keyStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	headerStyle := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)

	keyWidth := 0
	for _, b := range m.bindings {
		keyWidth = max(keyWidth, lipgloss.Width(keyLabel(b)))
	}

	var sb strings.Builder
	current := ""
	for _, b := range m.bindings {
		if b.Context != current {
			if current != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(headerStyle.Render(categoryLabels[b.Context]))
			sb.WriteString("\n")
			current = b.Context
		}
		label := keyLabel(b)
		sb.WriteString(keyStyle.Render(label + strings.Repeat(" ", keyWidth-lipgloss.Width(label))))
		sb.WriteString("  ")
		sb.WriteString(t.S().Base.Render(b.Description))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func keyLabel(b keymap.Binding) string {
	keys := make([]string, len(b.Keys))
	for i, k := range b.Keys {
		if k == " " {
			k = "space"
		}
		keys[i] = k
	}
	return strings.Join(keys, ", ")
}

func (m *Model) footer() string {
	if m.maxScroll() == 0 {
		return "?/esc close"
	}
	return "j/k scroll · ?/esc close"
}

func (m *Model) visibleHeight() int {
	return max(m.Height()-chrome, 3)
}

func (m *Model) totalLines() int {
	return strings.Count(m.buildContent(), "\n") + 1
}

func (m *Model) maxScroll() int {
	return max(m.totalLines()-m.visibleHeight(), 0)
}
