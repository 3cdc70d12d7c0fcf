package model_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
)

func sampleStructure() model.Structure {
	return model.Structure{
		Title:   "Student Intake",
		ID:      "intake",
		Version: "1",
		Sections: []model.Section{
			{
				ID:    1,
				Title: "About you",
				Fields: []model.Field{
					{ID: "name", Kind: model.FieldKindText, Label: "Name", Required: true},
					{ID: "consent", Kind: model.FieldKindCheckbox, Label: "Consent"},
				},
			},
			{
				ID:    2,
				Title: "Contact",
				Fields: []model.Field{
					{ID: "email", Kind: model.FieldKindEmail, Label: "Email"},
					{
						ID:      "track",
						Kind:    model.FieldKindRadio,
						Label:   "Track",
						Options: []model.Option{{Value: "be", Label: "Backend"}, {Value: "fe"}},
					},
				},
			},
		},
	}
}

func TestDefaultAnswers(t *testing.T) {
	got := model.DefaultAnswers(sampleStructure())
	want := model.AnswerSet{
		"name":    "",
		"consent": false,
		"email":   "",
		"track":   "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("default answers mismatch (-want +got):\n%s", diff)
	}
}

func TestStructureFieldLookup(t *testing.T) {
	s := sampleStructure()

	field, ok := s.Field("track")
	if !ok {
		t.Fatalf("expected track field")
	}
	if label, ok := field.OptionLabel("fe"); !ok || label != "fe" {
		t.Fatalf("expected option value as fallback label, got %q", label)
	}
	if label, _ := field.OptionLabel("be"); label != "Backend" {
		t.Fatalf("expected Backend label, got %q", label)
	}
	if _, ok := s.Field("missing"); ok {
		t.Fatalf("expected missing field lookup to fail")
	}

	ids := make([]string, 0)
	for _, f := range s.Fields() {
		ids = append(ids, f.ID)
	}
	if diff := cmp.Diff([]string{"name", "consent", "email", "track"}, ids); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestStructureValidate(t *testing.T) {
	if err := sampleStructure().Validate(); err != nil {
		t.Fatalf("expected valid structure, got %v", err)
	}

	broken := model.Structure{
		Sections: []model.Section{
			{Fields: []model.Field{
				{ID: "a", Kind: model.FieldKindText},
				{ID: "a", Kind: model.FieldKindText},
				{ID: "", Kind: model.FieldKindText},
				{ID: "b", Kind: "slider"},
				{ID: "c", Kind: model.FieldKindDropdown},
				{ID: "d", Kind: model.FieldKindText, MinLength: 5, MaxLength: 2},
			}},
		},
	}
	err := broken.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, fragment := range []string{
		`duplicate field id "a"`,
		"field id is required",
		`unsupported type "slider"`,
		"dropdown requires options",
		"minLength 5 exceeds maxLength 2",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %v", fragment, err)
		}
	}
}

func TestKindsAreValid(t *testing.T) {
	for _, kind := range model.Kinds() {
		if !kind.Valid() {
			t.Fatalf("kind %q reported invalid", kind)
		}
	}
	if model.FieldKind("number").Valid() {
		t.Fatalf("unexpected valid kind")
	}
}

func TestErrorSetKeysSorted(t *testing.T) {
	errs := model.ErrorSet{"b": "x", "a": "y"}
	if diff := cmp.Diff([]string{"a", "b"}, errs.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	clone := errs.Clone()
	delete(clone, "a")
	if !errs.Has("a") {
		t.Fatalf("clone must not alias the original")
	}
}
