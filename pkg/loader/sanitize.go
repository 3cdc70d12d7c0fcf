package loader

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/model"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// sanitizeText removes any markup from service-provided display text.
// bluemonday escapes the remaining entities, so they are decoded again for
// plain-text consumers.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// Sanitize returns a copy of s with every title, description, label,
// placeholder, custom message and option label stripped of markup.
// Identifiers and option values are left untouched.
func Sanitize(s model.Structure) model.Structure {
	out := s
	out.Title = sanitizeText(s.Title)
	out.Sections = make([]model.Section, len(s.Sections))
	for i, section := range s.Sections {
		section.Title = sanitizeText(section.Title)
		section.Description = sanitizeText(section.Description)
		fields := make([]model.Field, len(section.Fields))
		for j, field := range section.Fields {
			field.Label = sanitizeText(field.Label)
			field.Placeholder = sanitizeText(field.Placeholder)
			if field.Validation != nil {
				field.Validation = &model.FieldValidation{Message: sanitizeText(field.Validation.Message)}
			}
			if len(field.Options) > 0 {
				options := make([]model.Option, len(field.Options))
				for k, opt := range field.Options {
					opt.Label = sanitizeText(opt.Label)
					options[k] = opt
				}
				field.Options = options
			}
			fields[j] = field
		}
		section.Fields = fields
		out.Sections[i] = section
	}
	return out
}
