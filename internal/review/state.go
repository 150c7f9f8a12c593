// Package review models the lifecycle of one claim review session: a
// document goes up, the backend adjudicates, the normalized result is
// displayed. Failures never leave the session half-processed.
package review

// State is a phase of the review session lifecycle.
type State string

const (
	StateIdle        State = "IDLE"
	StateUploading   State = "UPLOADING"
	StateNormalizing State = "NORMALIZING"
	StateDisplaying  State = "DISPLAYING"
	StateFailed      State = "FAILED"
)

var validStates = map[State]bool{
	StateIdle:        true,
	StateUploading:   true,
	StateNormalizing: true,
	StateDisplaying:  true,
	StateFailed:      true,
}

// IsValid returns true if the state is a known session state.
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
