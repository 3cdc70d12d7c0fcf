package validation

import "github.com/goliatone/go-formflow/pkg/model"

// ValidateSection validates every field of a section against answers using
// the default English messages.
func ValidateSection(fields []model.Field, answers model.AnswerSet) (bool, model.ErrorSet) {
	return defaultValidator.Section(fields, answers)
}

// Section applies Field to every field in order and collects all failures
// into a fresh ErrorSet. It never stops at the first failing field.
func (v *Validator) Section(fields []model.Field, answers model.AnswerSet) (bool, model.ErrorSet) {
	errs := make(model.ErrorSet)
	for _, field := range fields {
		if msg, ok := v.Field(field, answers[field.ID]); !ok {
			errs[field.ID] = msg
		}
	}
	return len(errs) == 0, errs
}
