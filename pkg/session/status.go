package session

import "fmt"

// Status is the lifecycle state of a Session.
type Status int

const (
	// StatusLoading waits for the form structure. No other events are accepted.
	StatusLoading Status = iota
	// StatusReady accepts edits and navigation on the current section.
	StatusReady
	// StatusSubmitting is held while the sink processes the submission.
	StatusSubmitting
	// StatusSubmitted is terminal.
	StatusSubmitted
	// StatusLoadFailed is terminal until Retry.
	StatusLoadFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusSubmitting:
		return "submitting"
	case StatusSubmitted:
		return "submitted"
	case StatusLoadFailed:
		return "load_failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}
