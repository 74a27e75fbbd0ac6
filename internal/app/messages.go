package app

import (
	"time"

	"github.com/llehouerou/chorus/internal/detect"
)

// DetectStateMsg is sent when the detection loop changes state.
type DetectStateMsg detect.StateChange

// DetectTrackMsg is sent when a track is locked or cleared.
type DetectTrackMsg detect.TrackChange

// DetectErrorMsg is sent when a detection cycle fails.
type DetectErrorMsg detect.ErrorEvent

// DetectClosedMsg is sent when the detection service shut down.
type DetectClosedMsg struct{}

// FrameTickMsg drives position updates while a track is locked.
type FrameTickMsg time.Time

// NotifyResultMsg carries the outcome of a desktop notification.
type NotifyResultMsg struct {
	Err error
}

// HistoryResultMsg carries the outcome of recording a detection.
type HistoryResultMsg struct {
	Err error
}
