// Package session implements the section-sequencing state machine of a form.
//
// A Session starts in StatusLoading, resolves to StatusReady on section 0 (or
// StatusLoadFailed) once a structure arrives, and accepts field edits and
// navigation events from then on. Forward moves (Advance, Submit) run the
// section validator on the current section and are refused while any field
// fails; backward moves (Retreat, JumpTo) always succeed and clear the error
// set. Submit hands the answers to a sink.Sink and ends in StatusSubmitted.
//
// The session is single-threaded: each event runs to completion before the
// next one. Callers that share a session across goroutines must serialise
// access themselves.
package session
