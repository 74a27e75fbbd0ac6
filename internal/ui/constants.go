// Package ui provides shared UI constants and utilities.
package ui

import "time"

// Layout constants for consistent sizing across UI components.
const (
	// HeaderHeight is the space for the status line, track line and separator.
	HeaderHeight = 3

	// FooterHeight is the space for the separator, progress bar and help line.
	FooterHeight = 3

	// MinLyricsHeight is the smallest lyrics viewport drawn.
	MinLyricsHeight = 3

	// MinProgressBarWidth is the minimum width for a usable progress bar.
	MinProgressBarWidth = 5

	// FadeDistance is how many lines away from the active one a lyric
	// reaches its dimmest color.
	FadeDistance = 6
)

// FrameInterval is the render tick period while a track is locked.
const FrameInterval = time.Second / 30
