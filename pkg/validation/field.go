package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formflow/pkg/model"
)

// telPattern accepts an optional 1-3 digit country code before the area code.
var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telPattern   = regexp.MustCompile(`^(?:[+]?[0-9]{1,3}[-\s.]?)?[(]?[0-9]{3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}$`)
)

// coerced is the normalised view of a raw answer value.
type coerced struct {
	text    string
	isText  bool
	flag    bool
	items   int
	present bool
}

func coerce(value any) coerced {
	switch v := value.(type) {
	case string:
		return coerced{text: strings.TrimSpace(v), isText: true, present: true}
	case bool:
		return coerced{flag: v, present: true}
	case []string:
		return coerced{items: len(v), present: true}
	case []any:
		return coerced{items: len(v), present: true}
	default:
		return coerced{}
	}
}

// emptyFor reports whether the value counts as missing for a required field of
// the given kind.
func (c coerced) emptyFor(kind model.FieldKind) bool {
	if kind.IsBoolean() {
		return !c.flag
	}
	return c.text == ""
}

// blank reports whether an optional field has nothing to check.
func (c coerced) blank() bool {
	return c.text == "" && c.items == 0 && !c.flag
}

// ValidateField applies the field rules to value using the default English
// messages. It returns the failure message and false, or "" and true.
func ValidateField(field model.Field, value any) (string, bool) {
	return defaultValidator.Field(field, value)
}

// Field validates a single value. Rules run in order and stop at the first
// failure: required, optional-and-empty, length bounds, format.
func (v *Validator) Field(field model.Field, value any) (string, bool) {
	c := coerce(value)

	if field.Required && c.emptyFor(field.Kind) {
		if field.Validation != nil && strings.TrimSpace(field.Validation.Message) != "" {
			return field.Validation.Message, false
		}
		return v.message(KeyRequired, "", field, nil), false
	}

	if !field.Required && c.blank() {
		return "", true
	}

	if c.text == "" {
		return "", true
	}

	length := utf8.RuneCountInString(c.text)
	if field.MinLength > 0 && length < field.MinLength {
		return v.message(KeyMinLength, "", field, map[string]any{"min": field.MinLength}), false
	}
	if field.MaxLength > 0 && length > field.MaxLength {
		return v.message(KeyMaxLength, "", field, map[string]any{"max": field.MaxLength}), false
	}

	switch field.Kind {
	case model.FieldKindEmail:
		if !emailPattern.MatchString(c.text) {
			return v.message(KeyEmail, "", field, nil), false
		}
	case model.FieldKindTel:
		if !telPattern.MatchString(c.text) {
			return v.message(KeyTel, "", field, nil), false
		}
	case model.FieldKindText, model.FieldKindTextArea, model.FieldKindDate,
		model.FieldKindDropdown, model.FieldKindRadio, model.FieldKindCheckbox:
	}

	return "", true
}
