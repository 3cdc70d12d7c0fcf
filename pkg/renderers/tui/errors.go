package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNotLoaded is returned by Run for a session that has no form yet.
	ErrNotLoaded = errors.New("tui: session has no form loaded")
	// ErrLoadFailed wraps the load failure of the session passed to Run.
	ErrLoadFailed = errors.New("tui: form failed to load")
)
