package lyrics

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/chorus/internal/lyrics"
	"github.com/llehouerou/chorus/internal/ui/testutil"
)

func makeSampleLines(n int) *lyrics.Lyrics {
	lines := make([]lyrics.Line, n)
	for i := range lines {
		lines[i] = lyrics.Line{
			Time: time.Duration(i*5) * time.Second,
			Text: fmt.Sprintf("Line %d", i),
		}
	}
	return &lyrics.Lyrics{Lines: lines}
}

func newLoadedView(n int) *Model {
	m := New()
	m.SetSize(40, 10)
	m.SetLyrics(makeSampleLines(n))
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_Placeholder(t *testing.T) {
	m := New()
	m.SetSize(40, 10)

	view := m.View()
	if msg := testutil.AssertContains(view, placeholderTitle); msg != "" {
		t.Error(msg)
	}
	if msg := testutil.AssertContains(view, placeholderHint); msg != "" {
		t.Error(msg)
	}
	if got := len(testutil.SplitLines(view)); got > 10 {
		t.Errorf("placeholder uses %d lines, want at most 10", got)
	}
}

func TestView_EmptyLyricsShowPlaceholder(t *testing.T) {
	m := New()
	m.SetSize(40, 10)
	m.SetLyrics(&lyrics.Lyrics{})

	if msg := testutil.AssertContains(m.View(), placeholderTitle); msg != "" {
		t.Error(msg)
	}
}

func TestView_ZeroSize(t *testing.T) {
	m := New()
	if m.View() != "" {
		t.Error("zero-size view should render empty")
	}
}

func TestSetPosition_TracksActiveLine(t *testing.T) {
	m := newLoadedView(20)

	m.SetPosition(-time.Second)
	if m.CurrentLine() != -1 {
		t.Errorf("before first line: CurrentLine = %d, want -1", m.CurrentLine())
	}

	m.SetPosition(12 * time.Second)
	if m.CurrentLine() != 2 {
		t.Errorf("at 12s: CurrentLine = %d, want 2", m.CurrentLine())
	}
}

func TestView_ActiveLineCentered(t *testing.T) {
	m := newLoadedView(20)
	m.SetPosition(50 * time.Second) // line 10

	lines := strings.Split(testutil.StripANSI(m.View()), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	if strings.TrimSpace(lines[5]) != "Line 10" {
		t.Errorf("middle row = %q, want Line 10", strings.TrimSpace(lines[5]))
	}
}

func TestView_FirstLineCenteredBeforeStart(t *testing.T) {
	m := newLoadedView(20)
	m.SetPosition(-time.Second)

	lines := strings.Split(testutil.StripANSI(m.View()), "\n")
	if strings.TrimSpace(lines[5]) != "Line 0" {
		t.Errorf("middle row = %q, want Line 0", strings.TrimSpace(lines[5]))
	}
	if strings.TrimSpace(lines[0]) != "" {
		t.Errorf("rows above the first line should be blank, got %q", lines[0])
	}
}

func TestView_LinesFitWidth(t *testing.T) {
	m := New()
	m.SetSize(20, 5)
	m.SetLyrics(&lyrics.Lyrics{Lines: []lyrics.Line{
		{Time: 0, Text: "A very long lyric line that cannot fit"},
	}})
	m.SetPosition(0)

	for _, line := range strings.Split(m.View(), "\n") {
		if w := testutil.MeasureWidth(line); w > 20 {
			t.Errorf("line width %d exceeds 20: %q", w, testutil.StripANSI(line))
		}
	}
}

func TestHandleKey_ScrollDisablesAutoScroll(t *testing.T) {
	m := newLoadedView(50)
	m.SetPosition(0)
	initial := m.scrollOffset

	if !m.HandleKey(key("j")) {
		t.Fatal("j should be handled")
	}
	if m.scrollOffset != initial+1 {
		t.Errorf("scrollOffset = %d, want %d", m.scrollOffset, initial+1)
	}
	if m.AutoScroll() {
		t.Error("manual scroll should disable auto-scroll")
	}

	// The view stays put while the song moves on.
	m.SetPosition(100 * time.Second)
	if m.scrollOffset != initial+1 {
		t.Errorf("scrollOffset moved to %d without auto-scroll", m.scrollOffset)
	}
}

func TestHandleKey_ScrollBounds(t *testing.T) {
	m := newLoadedView(12)

	for range 100 {
		m.HandleKey(key("j"))
	}
	if m.scrollOffset != m.maxScroll() {
		t.Errorf("scrollOffset = %d, want max %d", m.scrollOffset, m.maxScroll())
	}

	for range 100 {
		m.HandleKey(key("k"))
	}
	if m.scrollOffset != m.minScroll() {
		t.Errorf("scrollOffset = %d, want min %d", m.scrollOffset, m.minScroll())
	}
}

func TestHandleKey_JumpAndRecenter(t *testing.T) {
	m := newLoadedView(50)
	m.SetPosition(50 * time.Second)
	centered := m.scrollOffset

	m.HandleKey(key("G"))
	if m.scrollOffset != m.maxScroll() {
		t.Errorf("G: scrollOffset = %d, want %d", m.scrollOffset, m.maxScroll())
	}
	m.HandleKey(key("g"))
	if m.scrollOffset != m.minScroll() {
		t.Errorf("g: scrollOffset = %d, want %d", m.scrollOffset, m.minScroll())
	}

	m.HandleKey(key("c"))
	if !m.AutoScroll() {
		t.Error("c should re-enable auto-scroll")
	}
	if m.scrollOffset != centered {
		t.Errorf("c: scrollOffset = %d, want %d", m.scrollOffset, centered)
	}
}

func TestHandleKey_Unhandled(t *testing.T) {
	m := newLoadedView(5)
	if m.HandleKey(key("x")) {
		t.Error("x should not be handled")
	}
}

func TestSetLyrics_ResetsScroll(t *testing.T) {
	m := newLoadedView(50)
	m.HandleKey(key("G"))

	m.SetLyrics(makeSampleLines(3))
	if !m.AutoScroll() {
		t.Error("new lyrics should re-enable auto-scroll")
	}
	if m.CurrentLine() != -1 {
		t.Errorf("CurrentLine = %d, want -1", m.CurrentLine())
	}
}
