package loader_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/model"
)

const jsonEnvelope = `{
  "message": "Form fetched",
  "form": {
    "formTitle": "Student <b>Intake</b>",
    "formId": "intake",
    "version": "2",
    "sections": [
      {
        "sectionId": 1,
        "title": "About <script>alert(1)</script>you",
        "description": "Tell us &amp; more",
        "fields": [
          {"fieldId": "name", "type": "text", "label": "<i>Name</i>", "required": true, "dataTestId": "name-input", "minLength": 2},
          {"fieldId": "consent", "type": "checkbox", "label": "Consent", "required": false},
          {"fieldId": "year", "type": "dropdown", "label": "Year", "required": true,
           "validation": {"message": "Pick a <b>year</b>"},
           "options": [{"value": "1", "label": "<em>First</em>"}, {"value": "2", "label": "Second"}]}
        ]
      }
    ]
  }
}`

const yamlBare = `
formTitle: Fallback
formId: default
version: "1"
sections:
  - sectionId: 1
    title: Only
    description: ""
    fields:
      - fieldId: email
        type: email
        label: Email
        required: true
`

func TestFileSource_ParsesEnvelopeAndFallsBack(t *testing.T) {
	fsys := fstest.MapFS{
		"R42.json":     {Data: []byte(jsonEnvelope)},
		"default.yaml": {Data: []byte(yamlBare)},
	}
	src := loader.NewFileSource(fsys)

	got, err := src.FetchForm(context.Background(), "R42")
	if err != nil {
		t.Fatalf("fetch R42: %v", err)
	}
	if got.ID != "intake" || len(got.Sections) != 1 || len(got.Sections[0].Fields) != 3 {
		t.Fatalf("unexpected structure %+v", got)
	}
	if got.Sections[0].Fields[0].TestID != "name-input" || got.Sections[0].Fields[0].MinLength != 2 {
		t.Fatalf("field attributes not decoded: %+v", got.Sections[0].Fields[0])
	}

	fallback, err := src.FetchForm(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("fetch fallback: %v", err)
	}
	if fallback.ID != "default" || fallback.Sections[0].Fields[0].Kind != model.FieldKindEmail {
		t.Fatalf("unexpected fallback structure %+v", fallback)
	}
}

func TestFileSource_NotFound(t *testing.T) {
	src := loader.NewFileSource(fstest.MapFS{})
	for _, id := range []string{"R1", "../etc/passwd", ""} {
		if _, err := src.FetchForm(context.Background(), id); !errors.Is(err, loader.ErrNotFound) {
			t.Fatalf("%q: expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestParseStructure_Invalid(t *testing.T) {
	if _, err := loader.ParseStructure([]byte("  "), "x.json"); err == nil {
		t.Fatalf("expected empty document error")
	}
	if _, err := loader.ParseStructure([]byte("{: ["), "x.yaml"); err == nil || !strings.Contains(err.Error(), "x.yaml") {
		t.Fatalf("expected parse error naming the source, got %v", err)
	}
}

func TestLoader_SanitizesTrimmedLookup(t *testing.T) {
	src := loader.NewFileSource(fstest.MapFS{"R42.json": {Data: []byte(jsonEnvelope)}})
	l := loader.New(src)

	s, err := l.FetchForm(context.Background(), "  R42 ")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if s.Title != "Student Intake" {
		t.Fatalf("title not sanitised: %q", s.Title)
	}
	if s.Sections[0].Title != "About you" {
		t.Fatalf("section title not sanitised: %q", s.Sections[0].Title)
	}
	if s.Sections[0].Description != "Tell us & more" {
		t.Fatalf("entities should be decoded: %q", s.Sections[0].Description)
	}
	year := s.Sections[0].Fields[2]
	if year.Label != "Year" || year.Validation.Message != "Pick a year" || year.Options[0].Label != "First" {
		t.Fatalf("field text not sanitised: %+v", year)
	}
	if s.Sections[0].Fields[0].Label != "Name" {
		t.Fatalf("label not sanitised: %q", s.Sections[0].Fields[0].Label)
	}
}

func TestLoader_RejectsBrokenStructure(t *testing.T) {
	src := loader.SourceFunc(func(context.Context, string) (model.Structure, error) {
		return model.Structure{Sections: []model.Section{{Fields: []model.Field{
			{ID: "a", Kind: model.FieldKindRadio, Label: "A"},
		}}}}, nil
	})
	_, err := loader.New(src).FetchForm(context.Background(), "R1")
	if err == nil || !strings.Contains(err.Error(), "radio requires options") {
		t.Fatalf("expected structure error, got %v", err)
	}
}

func TestLoader_PropagatesSourceError(t *testing.T) {
	boom := errors.New("User not found")
	src := loader.SourceFunc(func(context.Context, string) (model.Structure, error) {
		return model.Structure{}, boom
	})
	if _, err := loader.New(src).FetchForm(context.Background(), "R1"); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if _, err := loader.New(src).FetchForm(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty roll number")
	}
}
