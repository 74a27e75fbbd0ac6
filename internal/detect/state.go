package detect

import "github.com/llehouerou/chorus/internal/errmsg"

// State represents the detection loop state.
type State int

const (
	StateIdle State = iota
	StateListening
	StateIdentifying
	StateLocked
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateListening:
		return "Listening"
	case StateIdentifying:
		return "Identifying"
	case StateLocked:
		return "Locked"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsActive returns true while a detection session is running (including locked).
func (s State) IsActive() bool {
	return s != StateIdle
}

// Outcome is the result of the last finished cycle.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeMiss
	OutcomeError
	OutcomeMatch
)

// status maps loop state to the line shown to the user.
func status(s State, o Outcome, hasTrack bool) string {
	switch s {
	case StateIdle:
		return errmsg.StatusReady
	case StateListening:
		if hasTrack {
			return errmsg.StatusSyncing
		}
		if o == OutcomeMiss {
			return errmsg.StatusNoMatch
		}
		return errmsg.StatusListening
	case StateIdentifying:
		return errmsg.StatusIdentifying
	case StateLocked:
		return errmsg.StatusLocked
	case StateError:
		return errmsg.StatusError
	default:
		return ""
	}
}
