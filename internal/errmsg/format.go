// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Startup
	OpConfigLoad   Op = "load configuration"
	OpRecorderOpen Op = "open audio input"
	OpInitialize   Op = "initialize application"
	OpLogOpen      Op = "open log file"

	// Detection
	OpDetectStart  Op = "start detection"
	OpDetectResync Op = "resync"

	// Server
	OpServe Op = "serve identification requests"

	// Storage
	OpStateOpen     Op = "open local database"
	OpHistoryLoad   Op = "load detection history"
	OpHistoryRecord Op = "record detection"

	// Now-playing sinks
	OpMPRISStart     Op = "start MPRIS server"
	OpNotify         Op = "show notification"
	OpLastfmUpdate   Op = "update Last.fm now playing"
	OpLastfmScrobble Op = "scrobble to Last.fm"
	OpShutdown       Op = "shut down cleanly"
)

// Status lines shown while detecting. These replace error detail in the UI.
const (
	StatusReady       = "Ready to detect"
	StatusListening   = "Listening..."
	StatusSyncing     = "Syncing..."
	StatusIdentifying = "Identifying..."
	StatusNoMatch     = "No match found. Retrying..."
	StatusError       = "Error. Retrying..."
	StatusLocked      = "Locked"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
