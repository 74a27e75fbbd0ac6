// Package keymap defines key bindings and action dispatch for the application.
package keymap

import "strings"

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit            Action = "quit"
	ActionToggleDetection Action = "toggle_detection"
	ActionResync          Action = "resync"
	ActionHelp            Action = "help"

	// Lyrics view actions, handled by the view itself
	ActionScrollDown   Action = "scroll_down"
	ActionScrollUp     Action = "scroll_up"
	ActionScrollTop    Action = "scroll_top"
	ActionScrollBottom Action = "scroll_bottom"
	ActionRecenter     Action = "recenter"
)

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global" or "lyrics"
}

// Bindings contains all key bindings, in help order.
var Bindings = []Binding{
	{ActionToggleDetection, []string{" ", "enter"}, "start/stop", "global"},
	{ActionResync, []string{"r"}, "resync", "global"},
	{ActionScrollDown, []string{"j", "down"}, "scroll", "lyrics"},
	{ActionScrollUp, []string{"k", "up"}, "scroll", "lyrics"},
	{ActionScrollTop, []string{"g"}, "top", "lyrics"},
	{ActionScrollBottom, []string{"G"}, "bottom", "lyrics"},
	{ActionRecenter, []string{"c"}, "center", "lyrics"},
	{ActionHelp, []string{"?"}, "help", "global"},
	{ActionQuit, []string{"q", "ctrl+c"}, "quit", "global"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Help renders a one-line summary such as "space start/stop · r resync".
// Bindings sharing a description are merged ("j/k scroll").
func Help(bindings []Binding) string {
	var parts []string
	index := make(map[string]int)
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		key := displayKey(b.Keys[0])
		if i, ok := index[b.Description]; ok {
			parts[i] = strings.Replace(parts[i], " ", "/"+key+" ", 1)
			continue
		}
		index[b.Description] = len(parts)
		parts = append(parts, key+" "+b.Description)
	}
	return strings.Join(parts, " · ")
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
