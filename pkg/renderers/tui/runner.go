package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/account"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/session"
)

const (
	actionNext     = "Next"
	actionPrevious = "Previous"
	actionSubmit   = "Submit"

	skipOption = "(none)"

	credentialsMessage = "Both Roll Number and Name are required."
)

// Runner drives a form session from a terminal. It prompts every field of
// the current section, feeds the answers into the session, and offers the
// navigation actions the session allows until the form is submitted.
type Runner struct {
	driver PromptDriver
	out    io.Writer
	theme  Theme
	logger *slog.Logger
}

// New constructs a runner with defaults (survey driver writing to stdout).
func New(options ...Option) *Runner {
	r := &Runner{
		out:    os.Stdout,
		logger: logging.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r
}

// Login asks for a roll number and a name and registers the user. Blank
// credentials are reported and asked again; an already registered user is
// let in.
func (r *Runner) Login(ctx context.Context, registrar account.Registrar) (account.Result, error) {
	if ctx == nil {
		return account.Result{}, errors.New("tui: context is required")
	}
	for {
		roll, err := r.driver.Input(ctx, InputConfig{Message: "Roll Number"})
		if err != nil {
			return account.Result{}, err
		}
		name, err := r.driver.Input(ctx, InputConfig{Message: "Name"})
		if err != nil {
			return account.Result{}, err
		}

		result, err := account.Login(ctx, registrar, roll, name)
		if errors.Is(err, account.ErrCredentialsRequired) {
			if err := r.errorf(ctx, "%s", credentialsMessage); err != nil {
				return account.Result{}, err
			}
			continue
		}
		if err != nil {
			return account.Result{}, err
		}

		if result.Created {
			r.logger.Info("user registered", "roll_number", result.User.RollNumber)
		} else {
			r.logger.Info("user already registered", "roll_number", result.User.RollNumber, "message", result.Message)
		}
		if err := r.infof(ctx, "Welcome, %s.", result.User.Name); err != nil {
			return account.Result{}, err
		}
		return result, nil
	}
}

// Run walks sess from its current section until it is submitted. The session
// must already be loaded.
func (r *Runner) Run(ctx context.Context, sess *session.Session) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if sess == nil {
		return errors.New("tui: session is nil")
	}

	switch sess.Status() {
	case session.StatusLoading:
		return ErrNotLoaded
	case session.StatusLoadFailed:
		return fmt.Errorf("%w: %s", ErrLoadFailed, sess.LoadError())
	}

	if title := sess.Structure().Title; title != "" {
		if err := r.infof(ctx, "%s", title); err != nil {
			return err
		}
	}

	for sess.Status() == session.StatusReady {
		if err := ctx.Err(); err != nil {
			return err
		}
		section, _ := sess.Section()
		if err := r.showSection(ctx, sess, section); err != nil {
			return err
		}
		for _, field := range section.Fields {
			if err := r.promptField(ctx, sess, field); err != nil {
				return err
			}
		}
		if err := r.navigate(ctx, sess); err != nil {
			return err
		}
	}

	if sess.Status() != session.StatusSubmitted {
		return fmt.Errorf("tui: session stopped in state %s", sess.Status())
	}
	return r.infof(ctx, "Form submitted successfully.")
}

func (r *Runner) showSection(ctx context.Context, sess *session.Session, section model.Section) error {
	lines := []string{"", sess.Progress()}
	if section.Title != "" {
		lines = append(lines, section.Title)
	}
	if section.Description != "" {
		lines = append(lines, section.Description)
	}
	for _, line := range lines {
		if err := r.info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, sess *session.Session, field model.Field) error {
	if msg, ok := sess.FieldError(field.ID); ok {
		if err := r.errorf(ctx, "%s", msg); err != nil {
			return err
		}
	}

	current, _ := sess.Answer(field.ID)
	label := displayLabel(field)

	var value any
	switch field.Kind {
	case model.FieldKindCheckbox:
		def, _ := current.(bool)
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def, Help: field.Placeholder})
		if err != nil {
			return err
		}
		value = answer
	case model.FieldKindDropdown, model.FieldKindRadio:
		answer, err := r.promptChoice(ctx, field, label, current)
		if err != nil {
			return err
		}
		value = answer
	case model.FieldKindTextArea:
		def, _ := current.(string)
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: def, Help: field.Placeholder})
		if err != nil {
			return err
		}
		value = strings.TrimRight(answer, "\n")
	default:
		def, _ := current.(string)
		answer, err := r.driver.Input(ctx, InputConfig{Message: label, Default: def, Help: field.Placeholder})
		if err != nil {
			return err
		}
		value = answer
	}

	return sess.FieldChange(field.ID, value)
}

// promptChoice offers the option labels and maps the pick back to its value.
// Optional fields get a leading entry that leaves the answer empty.
func (r *Runner) promptChoice(ctx context.Context, field model.Field, label string, current any) (string, error) {
	var labels []string
	var values []string
	if !field.Required {
		labels = append(labels, skipOption)
		values = append(values, "")
	}
	for _, opt := range field.Options {
		text, _ := field.OptionLabel(opt.Value)
		labels = append(labels, text)
		values = append(values, opt.Value)
	}

	def, _ := current.(string)
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      labels,
		DefaultIndex: indexOf(values, def),
		Help:         field.Placeholder,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(values) {
		return "", fmt.Errorf("tui: selection %d out of range for %q", idx, field.ID)
	}
	return values[idx], nil
}

func (r *Runner) navigate(ctx context.Context, sess *session.Session) error {
	actions := navigationActions(sess.Navigation())
	if len(actions) == 0 {
		return fmt.Errorf("tui: no navigation available in state %s", sess.Status())
	}

	action := actions[0]
	if len(actions) > 1 {
		idx, err := r.driver.Select(ctx, SelectConfig{Message: "Continue", Options: actions})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			return fmt.Errorf("tui: selection %d out of range", idx)
		}
		action = actions[idx]
	}

	var err error
	switch action {
	case actionNext:
		err = sess.Advance()
	case actionPrevious:
		err = sess.Retreat()
	case actionSubmit:
		err = sess.Submit(ctx)
	}

	var verr *session.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		return r.errorf(ctx, "Please fix %d field(s) before continuing.", len(verr.Errors))
	case errors.Is(err, session.ErrSubmissionFailed):
		r.logger.Warn("submission failed", "error", err)
		return r.errorf(ctx, "Submission failed: %s", sess.SubmitError())
	default:
		return err
	}
}

// navigationActions lists the allowed actions with the forward one first.
func navigationActions(nav session.Navigation) []string {
	if nav.Disabled {
		return nil
	}
	var out []string
	if nav.Next {
		out = append(out, actionNext)
	}
	if nav.Submit {
		out = append(out, actionSubmit)
	}
	if nav.Previous {
		out = append(out, actionPrevious)
	}
	return out
}

func displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.ID
	}
	if field.Required {
		return label + " *"
	}
	return label
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Runner) infof(ctx context.Context, format string, args ...any) error {
	return r.info(ctx, fmt.Sprintf(format, args...))
}

func (r *Runner) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}
