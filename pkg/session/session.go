package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/sink"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Session owns the state of one user filling one form: the structure, the
// answers, the current errors, the section index and the submitting flag.
// Events run to completion one at a time; a Session is not safe for
// concurrent use.
type Session struct {
	structure  model.Structure
	answers    model.AnswerSet
	errors     model.ErrorSet
	index      int
	status     Status
	submitting bool
	loadErr    string
	submitErr  string

	user      model.User
	sink      sink.Sink
	validator *validation.Validator
	hooks     Hooks
	logger    *slog.Logger
	now       func() time.Time
}

// New returns a session in StatusLoading.
func New(options ...Option) *Session {
	s := &Session{
		answers:   make(model.AnswerSet),
		errors:    make(model.ErrorSet),
		status:    StatusLoading,
		sink:      sink.Discard,
		validator: validation.New(),
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load fetches the structure for rollNumber from src and resolves the
// Loading state: Ready on success, LoadFailed carrying the error text
// otherwise.
func (s *Session) Load(ctx context.Context, src loader.Source, rollNumber string) error {
	if s.status != StatusLoading {
		return stateError("load", s.status)
	}
	if src == nil {
		_ = s.Fail("form source is not configured")
		return fmt.Errorf("session: load form: %w", ErrNoSource)
	}
	structure, err := src.FetchForm(ctx, rollNumber)
	if err != nil {
		_ = s.Fail(err.Error())
		return fmt.Errorf("session: load form: %w", err)
	}
	return s.Initialize(structure)
}

// Initialize installs a loaded structure and enters Ready(0) with defaulted
// answers. A structure without sections has nothing to collect and goes
// straight to Submitted without calling the sink. A structurally invalid
// structure moves the session to LoadFailed.
func (s *Session) Initialize(structure model.Structure) error {
	if s.status != StatusLoading {
		return stateError("initialize", s.status)
	}
	if err := structure.Validate(); err != nil {
		_ = s.Fail(err.Error())
		return fmt.Errorf("%w: %w", ErrInvalidStructure, err)
	}

	s.structure = structure
	s.answers = model.DefaultAnswers(structure)
	s.errors = make(model.ErrorSet)
	s.index = 0
	s.loadErr = ""

	if len(structure.Sections) == 0 {
		s.logger.Info("form has no sections; nothing to collect", "form_id", structure.ID)
		s.transition(StatusSubmitted, 0)
		return nil
	}

	s.logger.Debug("form session ready",
		"form_id", structure.ID,
		"version", structure.Version,
		"sections", len(structure.Sections),
	)
	s.transition(StatusReady, 0)
	return nil
}

// Fail resolves Loading into LoadFailed, keeping message verbatim.
func (s *Session) Fail(message string) error {
	if s.status != StatusLoading {
		return stateError("fail", s.status)
	}
	s.loadErr = message
	s.logger.Warn("form load failed", "error", message)
	s.transition(StatusLoadFailed, 0)
	return nil
}

// Retry moves a LoadFailed session back to Loading so Load or Initialize can
// run again.
func (s *Session) Retry() error {
	if s.status != StatusLoadFailed {
		return stateError("retry", s.status)
	}
	s.loadErr = ""
	s.transition(StatusLoading, 0)
	return nil
}

// FieldChange stores value for fieldID. Checkbox fields take a bool, every
// other kind a string. Only the changed field's error is cleared; the rest of
// the section is not revalidated.
func (s *Session) FieldChange(fieldID string, value any) error {
	if s.status != StatusReady {
		return stateError("field change", s.status)
	}
	field, ok := s.structure.Field(fieldID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, fieldID)
	}
	if err := checkValueType(field, value); err != nil {
		return err
	}

	s.answers[fieldID] = value
	delete(s.errors, fieldID)
	return nil
}

func checkValueType(field model.Field, value any) error {
	switch field.Kind {
	case model.FieldKindCheckbox:
		if _, ok := value.(bool); ok {
			return nil
		}
	case model.FieldKindText, model.FieldKindTel, model.FieldKindEmail,
		model.FieldKindTextArea, model.FieldKindDate,
		model.FieldKindDropdown, model.FieldKindRadio:
		if _, ok := value.(string); ok {
			return nil
		}
	default:
		if _, ok := value.(string); ok {
			return nil
		}
	}
	return fmt.Errorf("%w: field %q (%s) got %T", ErrValueType, field.ID, field.Kind, value)
}

// Advance validates the current section and moves forward when it passes.
// On failure the error set is replaced with the section's failures and the
// returned error is a *ValidationError.
func (s *Session) Advance() error {
	if s.status != StatusReady {
		return stateError("advance", s.status)
	}
	if s.IsLast() {
		return ErrNoNextSection
	}
	if err := s.validateCurrent(); err != nil {
		return err
	}
	s.jump(s.index + 1)
	return nil
}

// Retreat moves back one section without validating and clears all errors.
func (s *Session) Retreat() error {
	if s.status != StatusReady {
		return stateError("retreat", s.status)
	}
	if s.index == 0 {
		return ErrNoPreviousSection
	}
	s.jump(s.index - 1)
	return nil
}

// JumpTo moves to section index without validating and clears all errors.
func (s *Session) JumpTo(index int) error {
	if s.status != StatusReady {
		return stateError("jump", s.status)
	}
	if index < 0 || index >= len(s.structure.Sections) {
		return fmt.Errorf("%w: %d (sections: %d)", ErrSectionOutOfRange, index, len(s.structure.Sections))
	}
	s.jump(index)
	return nil
}

// Submit validates the last section and hands the answers to the sink. A
// Submit arriving while a submission is outstanding is a no-op. When the
// sink fails the session returns to Ready on the last section, SubmitError
// reports the failure, and Submit may be called again.
func (s *Session) Submit(ctx context.Context) error {
	if s.submitting {
		return nil
	}
	if s.status != StatusReady {
		return stateError("submit", s.status)
	}
	if !s.IsLast() {
		return ErrNotLastSection
	}
	if err := s.validateCurrent(); err != nil {
		return err
	}

	s.submitting = true
	s.submitErr = ""
	s.transition(StatusSubmitting, s.index)

	submission := sink.Submission{
		FormID:      s.structure.ID,
		Title:       s.structure.Title,
		Version:     s.structure.Version,
		User:        s.user,
		Answers:     s.answers.Clone(),
		SubmittedAt: s.now(),
		Fields:      s.structure.Fields(),
	}

	started := time.Now()
	err := s.sink.Submit(ctx, submission)
	s.submitting = false
	s.notifySubmit(SubmitEvent{FormID: s.structure.ID, Duration: time.Since(started), Err: err})

	if err != nil {
		s.submitErr = err.Error()
		s.logger.Error("form submission failed", "form_id", s.structure.ID, "error", err)
		s.transition(StatusReady, s.index)
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	s.logger.Info("form submitted", "form_id", s.structure.ID, "roll_number", s.user.RollNumber)
	s.transition(StatusSubmitted, s.index)
	return nil
}

func (s *Session) validateCurrent() error {
	section := s.structure.Sections[s.index]
	ok, errs := s.validator.Section(section.Fields, s.answers)
	s.errors = errs
	if s.hooks.OnValidation != nil {
		s.hooks.OnValidation(ValidationEvent{Section: s.index, Valid: ok, Errors: errs.Clone()})
	}
	if ok {
		return nil
	}
	s.logger.Debug("section invalid", "section", s.index, "fields", errs.Keys())
	return &ValidationError{Section: s.index, Errors: errs.Clone()}
}

func (s *Session) jump(index int) {
	s.errors = make(model.ErrorSet)
	s.transition(StatusReady, index)
}

func (s *Session) transition(to Status, index int) {
	event := TransitionEvent{
		From:      s.status,
		To:        to,
		FromIndex: s.index,
		ToIndex:   index,
	}
	s.status = to
	s.index = index
	if s.hooks.OnTransition != nil {
		s.hooks.OnTransition(event)
	}
}

func (s *Session) notifySubmit(event SubmitEvent) {
	if s.hooks.OnSubmit != nil {
		s.hooks.OnSubmit(event)
	}
}
