package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/model"
)

// ErrNotFound signals that no form structure exists for the identifier.
var ErrNotFound = errors.New("loader: form not found")

// Source fetches the form structure assigned to a user identifier.
type Source interface {
	FetchForm(ctx context.Context, rollNumber string) (model.Structure, error)
}

// SourceFunc adapts a function into a Source.
type SourceFunc func(ctx context.Context, rollNumber string) (model.Structure, error)

// FetchForm calls the underlying function.
func (fn SourceFunc) FetchForm(ctx context.Context, rollNumber string) (model.Structure, error) {
	return fn(ctx, rollNumber)
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logging.OrNop(logger)
	}
}

// WithoutSanitize keeps remote text untouched.
func WithoutSanitize() Option {
	return func(l *Loader) {
		l.sanitize = false
	}
}

// Loader wraps a Source, strips markup from every display string and checks
// structural integrity before handing the structure to a session. Loader
// itself satisfies Source.
type Loader struct {
	source   Source
	logger   *slog.Logger
	sanitize bool
}

var _ Source = (*Loader)(nil)

// New constructs a Loader around source.
func New(source Source, options ...Option) *Loader {
	l := &Loader{
		source:   source,
		logger:   logging.NewNop(),
		sanitize: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// FetchForm fetches, sanitizes and validates the structure for rollNumber.
func (l *Loader) FetchForm(ctx context.Context, rollNumber string) (model.Structure, error) {
	if l.source == nil {
		return model.Structure{}, errors.New("loader: source is nil")
	}
	id := strings.TrimSpace(rollNumber)
	if id == "" {
		return model.Structure{}, errors.New("loader: roll number is required")
	}
	if err := ctx.Err(); err != nil {
		return model.Structure{}, err
	}

	structure, err := l.source.FetchForm(ctx, id)
	if err != nil {
		l.logger.WarnContext(ctx, "fetch form structure failed", "roll_number", id, "error", err)
		return model.Structure{}, err
	}
	if l.sanitize {
		structure = Sanitize(structure)
	}
	if err := structure.Validate(); err != nil {
		return model.Structure{}, fmt.Errorf("loader: invalid form structure: %w", err)
	}

	l.logger.DebugContext(ctx, "form structure loaded",
		"roll_number", id,
		"form_id", structure.ID,
		"version", structure.Version,
		"sections", len(structure.Sections),
	)
	return structure, nil
}
