package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldKind is the closed set of input kinds a form service may declare. The
// string values match the wire tags used by the remote service payloads.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindTel      FieldKind = "tel"
	FieldKindEmail    FieldKind = "email"
	FieldKindTextArea FieldKind = "textarea"
	FieldKindDate     FieldKind = "date"
	FieldKindDropdown FieldKind = "dropdown"
	FieldKindRadio    FieldKind = "radio"
	FieldKindCheckbox FieldKind = "checkbox"
)

// Kinds returns every supported field kind in declaration order.
func Kinds() []FieldKind {
	return []FieldKind{
		FieldKindText,
		FieldKindTel,
		FieldKindEmail,
		FieldKindTextArea,
		FieldKindDate,
		FieldKindDropdown,
		FieldKindRadio,
		FieldKindCheckbox,
	}
}

// Valid reports whether k is one of the supported kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldKindText, FieldKindTel, FieldKindEmail, FieldKindTextArea,
		FieldKindDate, FieldKindDropdown, FieldKindRadio, FieldKindCheckbox:
		return true
	default:
		return false
	}
}

// IsChoice reports whether the kind picks one value out of Options.
func (k FieldKind) IsChoice() bool {
	return k == FieldKindDropdown || k == FieldKindRadio
}

// IsBoolean reports whether the kind stores a bool answer.
func (k FieldKind) IsBoolean() bool {
	return k == FieldKindCheckbox
}

// Option is a selectable value for dropdown and radio fields.
type Option struct {
	Value  string `json:"value" yaml:"value"`
	Label  string `json:"label" yaml:"label"`
	TestID string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// FieldValidation carries service-provided overrides for validation output.
type FieldValidation struct {
	Message string `json:"message" yaml:"message"`
}

// Field models an individual input inside a section. Struct tags follow the
// form service payload so structures can be decoded directly.
type Field struct {
	ID          string           `json:"fieldId" yaml:"fieldId"`
	Kind        FieldKind        `json:"type" yaml:"type"`
	Label       string           `json:"label" yaml:"label"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool             `json:"required" yaml:"required"`
	TestID      string           `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options     []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	MinLength   int              `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   int              `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
}

// OptionLabel resolves the display label for an option value.
func (f Field) OptionLabel(value string) (string, bool) {
	for _, opt := range f.Options {
		if opt.Value == value {
			if opt.Label == "" {
				return opt.Value, true
			}
			return opt.Label, true
		}
	}
	return "", false
}

// Section is an ordered, independently validated group of fields.
type Section struct {
	ID          int     `json:"sectionId" yaml:"sectionId"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Structure is the top-level form definition fetched from the form service.
// Section order is navigation order.
type Structure struct {
	Title    string    `json:"formTitle" yaml:"formTitle"`
	ID       string    `json:"formId" yaml:"formId"`
	Version  string    `json:"version" yaml:"version"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Fields returns every field across all sections in navigation order.
func (s Structure) Fields() []Field {
	var out []Field
	for _, section := range s.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Field looks up a field by identifier.
func (s Structure) Field(id string) (Field, bool) {
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}

// Validate checks structural integrity and reports every problem found.
func (s Structure) Validate() error {
	var errs []error
	seen := make(map[string]int)
	for si, section := range s.Sections {
		for fi, field := range section.Fields {
			where := fmt.Sprintf("section %d field %d", si, fi)
			id := strings.TrimSpace(field.ID)
			if id == "" {
				errs = append(errs, fmt.Errorf("model: %s: field id is required", where))
				continue
			}
			if prev, dup := seen[id]; dup {
				errs = append(errs, fmt.Errorf("model: %s: duplicate field id %q (first seen in section %d)", where, id, prev))
			} else {
				seen[id] = si
			}
			if !field.Kind.Valid() {
				errs = append(errs, fmt.Errorf("model: field %q: unsupported type %q", id, field.Kind))
			}
			if field.Kind.IsChoice() && len(field.Options) == 0 {
				errs = append(errs, fmt.Errorf("model: field %q: %s requires options", id, field.Kind))
			}
			if field.MinLength < 0 || field.MaxLength < 0 {
				errs = append(errs, fmt.Errorf("model: field %q: length bounds must not be negative", id))
			}
			if field.MinLength > 0 && field.MaxLength > 0 && field.MinLength > field.MaxLength {
				errs = append(errs, fmt.Errorf("model: field %q: minLength %d exceeds maxLength %d", id, field.MinLength, field.MaxLength))
			}
		}
	}
	return errors.Join(errs...)
}

// AnswerSet maps field identifiers to their current value: bool for checkbox
// fields, string for everything else.
type AnswerSet map[string]any

// DefaultAnswers seeds an AnswerSet with an entry for every field: false for
// checkbox fields and the empty string for all others.
func DefaultAnswers(s Structure) AnswerSet {
	out := make(AnswerSet)
	for _, field := range s.Fields() {
		if field.Kind.IsBoolean() {
			out[field.ID] = false
			continue
		}
		out[field.ID] = ""
	}
	return out
}

// Clone returns a copy of the set. List values are copied as well.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		out[k] = v
	}
	return out
}

// String returns the textual answer for id, or "" when absent or not a string.
func (a AnswerSet) String(id string) string {
	s, _ := a[id].(string)
	return s
}

// Bool returns the boolean answer for id, or false when absent or not a bool.
func (a AnswerSet) Bool(id string) bool {
	b, _ := a[id].(bool)
	return b
}

// ErrorSet maps field identifiers to the message of their current failure.
// Absent keys mean valid or not yet validated.
type ErrorSet map[string]string

// Clone returns a copy of the set.
func (e ErrorSet) Clone() ErrorSet {
	out := make(ErrorSet, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Has reports whether id currently has an error.
func (e ErrorSet) Has(id string) bool {
	_, ok := e[id]
	return ok
}

// Keys returns the failing field identifiers sorted lexically.
func (e ErrorSet) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// User identifies the person filling in the form.
type User struct {
	RollNumber string `json:"rollNumber" yaml:"rollNumber"`
	Name       string `json:"name" yaml:"name"`
}

// FormResponse is the envelope the form service wraps structures in.
type FormResponse struct {
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
	Form    Structure `json:"form" yaml:"form"`
}
