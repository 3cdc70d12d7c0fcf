package session

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/model"
)

var (
	// ErrInvalidState is returned when an event arrives in a state that does
	// not accept it.
	ErrInvalidState = errors.New("session: operation not allowed in current state")
	// ErrInvalidStructure wraps structural problems found at Initialize.
	ErrInvalidStructure = errors.New("session: invalid form structure")
	// ErrUnknownField is returned by FieldChange for ids outside the form.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrValueType is returned by FieldChange when the value type does not
	// match the field kind.
	ErrValueType = errors.New("session: value type does not match field kind")
	// ErrSectionInvalid is matched by every *ValidationError.
	ErrSectionInvalid = errors.New("session: section has invalid fields")
	// ErrNoPreviousSection is returned by Retreat on the first section.
	ErrNoPreviousSection = errors.New("session: already on the first section")
	// ErrNoNextSection is returned by Advance on the last section.
	ErrNoNextSection = errors.New("session: already on the last section")
	// ErrNotLastSection is returned by Submit before the last section.
	ErrNotLastSection = errors.New("session: submit is only allowed on the last section")
	// ErrSectionOutOfRange is returned by JumpTo for indexes outside the form.
	ErrSectionOutOfRange = errors.New("session: section index out of range")
	// ErrNoSource is returned by Load when no form source is configured.
	ErrNoSource = errors.New("session: form source is not configured")
	// ErrSubmissionFailed wraps sink failures.
	ErrSubmissionFailed = errors.New("session: submission failed")
)

// ValidationError reports the failing fields of a section.
type ValidationError struct {
	Section int
	Errors  model.ErrorSet
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session: section %d has %d invalid field(s)", e.Section, len(e.Errors))
}

// Unwrap lets errors.Is match ErrSectionInvalid.
func (e *ValidationError) Unwrap() error {
	return ErrSectionInvalid
}

func stateError(op string, status Status) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidState, op, status)
}
