package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Message keys handed to a Translator.
const (
	KeyRequired  = "validation.required"
	KeyMinLength = "validation.minLength"
	KeyMaxLength = "validation.maxLength"
	KeyEmail     = "validation.email"
	KeyTel       = "validation.tel"
)

// Translator resolves message keys into localized strings. Args carries a
// single map with "label" plus rule parameters ("min", "max").
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// Option configures a Validator.
type Option func(*Validator)

// WithTranslator routes every message through t for the given locale.
// Failed or empty translations fall back to the English text.
func WithTranslator(t Translator, locale string) Option {
	return func(v *Validator) {
		v.translator = t
		v.locale = strings.TrimSpace(locale)
	}
}

// Validator validates fields and sections. The zero value uses English
// messages.
type Validator struct {
	translator Translator
	locale     string
}

var defaultValidator = &Validator{}

// New constructs a Validator.
func New(options ...Option) *Validator {
	v := &Validator{}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

func (v *Validator) message(key, fallback string, field model.Field, params map[string]any) string {
	if fallback == "" {
		fallback = englishMessage(key, field.Label, params)
	}
	if v == nil || v.translator == nil {
		return fallback
	}
	args := map[string]any{"label": field.Label}
	for k, val := range params {
		args[k] = val
	}
	translated, err := v.translator.Translate(v.locale, key, args)
	if err != nil || strings.TrimSpace(translated) == "" {
		return fallback
	}
	return translated
}

func englishMessage(key, label string, params map[string]any) string {
	switch key {
	case KeyRequired:
		return fmt.Sprintf("%s is required.", label)
	case KeyMinLength:
		return fmt.Sprintf("%s must be at least %v characters long.", label, params["min"])
	case KeyMaxLength:
		return fmt.Sprintf("%s must be no more than %v characters long.", label, params["max"])
	case KeyEmail:
		return fmt.Sprintf("Please enter a valid email address for %s.", label)
	case KeyTel:
		return fmt.Sprintf("Please enter a valid phone number for %s.", label)
	default:
		return label
	}
}
