package sink

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/model"
)

// Submission is the payload handed to a Sink once the last section passes
// validation.
type Submission struct {
	FormID      string          `json:"formId"`
	Title       string          `json:"formTitle,omitempty"`
	Version     string          `json:"version"`
	User        model.User      `json:"user"`
	Answers     model.AnswerSet `json:"answers"`
	SubmittedAt time.Time       `json:"submittedAt"`
	// Fields lists the form fields in navigation order so sinks can present
	// labels. It is not serialised.
	Fields []model.Field `json:"-"`
}

// Sink receives completed submissions. Implementations must not retain
// Answers beyond the call without copying.
type Sink interface {
	Submit(ctx context.Context, submission Submission) error
}

// Func adapts a function into a Sink.
type Func func(ctx context.Context, submission Submission) error

// Submit calls the underlying function.
func (fn Func) Submit(ctx context.Context, submission Submission) error {
	return fn(ctx, submission)
}

// Multi fans a submission out to every sink in order. All sinks run; their
// errors are joined.
func Multi(sinks ...Sink) Sink {
	return Func(func(ctx context.Context, submission Submission) error {
		var errs []error
		for _, s := range sinks {
			if s == nil {
				continue
			}
			if err := s.Submit(ctx, submission); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Log returns a sink that records the collected answers on logger.
func Log(logger *slog.Logger) Sink {
	logger = logging.OrNop(logger)
	return Func(func(ctx context.Context, submission Submission) error {
		logger.InfoContext(ctx, "form submitted",
			"form_id", submission.FormID,
			"version", submission.Version,
			"roll_number", submission.User.RollNumber,
			"answers", map[string]any(submission.Answers),
		)
		return nil
	})
}

// Discard accepts every submission and does nothing.
var Discard Sink = Func(func(context.Context, Submission) error { return nil })
