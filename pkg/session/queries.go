package session

import (
	"fmt"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Navigation lists the actions a front end should offer for the current
// section. Disabled is set while a submission is outstanding.
type Navigation struct {
	Previous bool
	Next     bool
	Submit   bool
	Disabled bool
}

// Status reports the lifecycle state.
func (s *Session) Status() Status {
	return s.status
}

// Index reports the current section index.
func (s *Session) Index() int {
	return s.index
}

// SectionCount reports how many sections the loaded form has.
func (s *Session) SectionCount() int {
	return len(s.structure.Sections)
}

// Section returns the current section. ok is false before a structure with
// sections is loaded.
func (s *Session) Section() (model.Section, bool) {
	if s.index < 0 || s.index >= len(s.structure.Sections) {
		return model.Section{}, false
	}
	return s.structure.Sections[s.index], true
}

// Structure returns the loaded form structure.
func (s *Session) Structure() model.Structure {
	return s.structure
}

// User returns the user the session was opened for.
func (s *Session) User() model.User {
	return s.user
}

// IsFirst reports whether the current section is the first one.
func (s *Session) IsFirst() bool {
	return s.index == 0
}

// IsLast reports whether the current section is the last one.
func (s *Session) IsLast() bool {
	return s.index == len(s.structure.Sections)-1
}

// Answers returns a copy of the current answers.
func (s *Session) Answers() model.AnswerSet {
	return s.answers.Clone()
}

// Answer returns the current value for fieldID.
func (s *Session) Answer(fieldID string) (any, bool) {
	v, ok := s.answers[fieldID]
	return v, ok
}

// Errors returns a copy of the current validation errors.
func (s *Session) Errors() model.ErrorSet {
	return s.errors.Clone()
}

// FieldError returns the current error for fieldID, if any.
func (s *Session) FieldError(fieldID string) (string, bool) {
	msg, ok := s.errors[fieldID]
	return msg, ok
}

// Submitting reports whether a submission is outstanding.
func (s *Session) Submitting() bool {
	return s.submitting
}

// LoadError returns the failure message in StatusLoadFailed.
func (s *Session) LoadError() string {
	return s.loadErr
}

// SubmitError returns the message of the last failed submission, cleared on
// the next attempt.
func (s *Session) SubmitError() string {
	return s.submitErr
}

// Progress renders the "Section i of n" indicator.
func (s *Session) Progress() string {
	return fmt.Sprintf("Section %d of %d", s.index+1, len(s.structure.Sections))
}

// Navigation reports which actions apply to the current section: Previous
// everywhere but the first section, Next everywhere but the last, Submit only
// on the last.
func (s *Session) Navigation() Navigation {
	if s.status != StatusReady && s.status != StatusSubmitting {
		return Navigation{}
	}
	return Navigation{
		Previous: !s.IsFirst(),
		Next:     !s.IsLast(),
		Submit:   s.IsLast(),
		Disabled: s.submitting,
	}
}
