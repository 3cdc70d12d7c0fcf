// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/model"
)

// LoadStructure reads a JSON or YAML structure fixture. Testing helpers fail
// the test on error to keep callers concise.
func LoadStructure(t *testing.T, path string) model.Structure {
	t.Helper()

	form, err := LoadStructureFromPath(path)
	if err != nil {
		t.Fatalf("load structure: %v", err)
	}
	return form
}

// LoadStructureFromPath returns a structure without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadStructureFromPath(path string) (model.Structure, error) {
	if path == "" {
		return model.Structure{}, errors.New("testsupport: structure path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Structure{}, fmt.Errorf("testsupport: read structure: %w", err)
	}
	return loader.ParseStructure(data, path)
}

// FetchStructure resolves the structure src serves for rollNumber.
func FetchStructure(t *testing.T, src loader.Source, rollNumber string) model.Structure {
	t.Helper()

	form, err := src.FetchForm(Context(), rollNumber)
	if err != nil {
		t.Fatalf("fetch structure for %q: %v", rollNumber, err)
	}
	return form
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
