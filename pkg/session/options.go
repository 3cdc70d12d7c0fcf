package session

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/sink"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// TransitionEvent describes a status or section change.
type TransitionEvent struct {
	From      Status
	To        Status
	FromIndex int
	ToIndex   int
}

// ValidationEvent describes a section validation pass.
type ValidationEvent struct {
	Section int
	Valid   bool
	Errors  model.ErrorSet
}

// SubmitEvent describes the outcome of a sink call.
type SubmitEvent struct {
	FormID   string
	Duration time.Duration
	Err      error
}

// Hooks observe session activity. Each hook runs synchronously inside the
// event that triggered it; nil hooks are skipped.
type Hooks struct {
	OnTransition func(TransitionEvent)
	OnValidation func(ValidationEvent)
	OnSubmit     func(SubmitEvent)
}

// Option configures a Session.
type Option func(*Session)

// WithSink sets where completed submissions go. Defaults to sink.Discard.
func WithSink(s sink.Sink) Option {
	return func(sess *Session) {
		if s != nil {
			sess.sink = s
		}
	}
}

// WithUser records who is filling the form; it is copied into submissions.
func WithUser(user model.User) Option {
	return func(sess *Session) {
		sess.user = user
	}
}

// WithValidator replaces the default English validator.
func WithValidator(v *validation.Validator) Option {
	return func(sess *Session) {
		if v != nil {
			sess.validator = v
		}
	}
}

// WithHooks installs lifecycle hooks.
func WithHooks(h Hooks) Option {
	return func(sess *Session) {
		sess.hooks = h
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sess *Session) {
		sess.logger = logging.OrNop(logger)
	}
}

// WithClock overrides the time source used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(sess *Session) {
		if now != nil {
			sess.now = now
		}
	}
}
