package helpbindings

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/chorus/internal/keymap"
	"github.com/llehouerou/chorus/internal/ui/testutil"
)

func newTestHelp(width, height int) *Model {
	m := New(keymap.Bindings)
	m.SetSize(width, height)
	return m
}

func TestHandleKey_Close(t *testing.T) {
	for _, key := range []tea.KeyMsg{testutil.Key("?"), testutil.Key("q"), {Type: tea.KeyEsc}} {
		if !newTestHelp(80, 40).HandleKey(key) {
			t.Errorf("%q should close the help", key.String())
		}
	}
	if newTestHelp(80, 40).HandleKey(testutil.Key("x")) {
		t.Error("unbound key should not close the help")
	}
}

func TestView_GroupsByContext(t *testing.T) {
	view := testutil.StripANSI(newTestHelp(80, 40).View())

	for _, want := range []string{"Keys", "Global", "Lyrics", "space, enter", "start/stop", "ctrl+c", "?/esc close"} {
		if msg := testutil.AssertContains(view, want); msg != "" {
			t.Error(msg)
		}
	}
	if strings.Index(view, "Global") > strings.Index(view, "Lyrics") {
		t.Error("global bindings should come first")
	}
}

func TestView_EmptyWithoutSize(t *testing.T) {
	if v := New(keymap.Bindings).View(); v != "" {
		t.Errorf("View() = %q, want empty", v)
	}
}

func TestScroll_ClampsToContent(t *testing.T) {
	m := newTestHelp(80, 8)
	limit := m.maxScroll()
	if limit == 0 {
		t.Fatal("expected content taller than the box")
	}

	for range limit + 3 {
		m.HandleKey(testutil.Key("j"))
	}
	if m.scrollOffset != limit {
		t.Errorf("scrollOffset = %d, want %d", m.scrollOffset, limit)
	}
	if msg := testutil.AssertContains(testutil.StripANSI(m.View()), "j/k scroll"); msg != "" {
		t.Error(msg)
	}

	for range limit + 3 {
		m.HandleKey(testutil.Key("k"))
	}
	if m.scrollOffset != 0 {
		t.Errorf("scrollOffset = %d, want 0", m.scrollOffset)
	}
}

func TestScroll_NoopWhenContentFits(t *testing.T) {
	m := newTestHelp(80, 40)
	m.HandleKey(testutil.Key("j"))
	if m.scrollOffset != 0 {
		t.Errorf("scrollOffset = %d, want 0", m.scrollOffset)
	}
}
