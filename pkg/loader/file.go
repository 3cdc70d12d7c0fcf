package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/model"
)

var structureExtensions = []string{".json", ".yaml", ".yml"}

// DefaultName is the file stem FileSource falls back to when no file matches
// the roll number.
const DefaultName = "default"

// FileSource serves structures from an fs.FS laid out as <rollNumber>.json,
// .yaml or .yml, falling back to default.* when present.
type FileSource struct {
	fsys fs.FS
}

var _ Source = (*FileSource)(nil)

// NewFileSource constructs a FileSource over fsys.
func NewFileSource(fsys fs.FS) *FileSource {
	return &FileSource{fsys: fsys}
}

// FetchForm resolves and parses the structure file for rollNumber.
func (f *FileSource) FetchForm(ctx context.Context, rollNumber string) (model.Structure, error) {
	if err := ctx.Err(); err != nil {
		return model.Structure{}, err
	}
	if f.fsys == nil {
		return model.Structure{}, errors.New("loader: file system is nil")
	}
	id := strings.TrimSpace(rollNumber)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return model.Structure{}, fmt.Errorf("%w: invalid roll number %q", ErrNotFound, rollNumber)
	}

	for _, stem := range []string{id, DefaultName} {
		for _, ext := range structureExtensions {
			name := stem + ext
			data, err := fs.ReadFile(f.fsys, name)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return model.Structure{}, fmt.Errorf("loader: read %s: %w", name, err)
			}
			return ParseStructure(data, name)
		}
	}
	return model.Structure{}, fmt.Errorf("%w: no structure for roll number %q", ErrNotFound, id)
}

type envelope struct {
	Message string           `json:"message" yaml:"message"`
	Form    *model.Structure `json:"form" yaml:"form"`
}

// ParseStructure decodes a JSON or YAML document holding either a bare
// structure or a {message, form} envelope. source names the document in
// error messages; its extension picks the decoder tried first.
func ParseStructure(data []byte, source string) (model.Structure, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.Structure{}, fmt.Errorf("loader: file %s is empty", source)
	}

	decoders := []func([]byte, any) error{json.Unmarshal, yaml.Unmarshal}
	if ext := strings.ToLower(path.Ext(source)); ext == ".yaml" || ext == ".yml" {
		decoders = []func([]byte, any) error{yaml.Unmarshal, json.Unmarshal}
	}

	var lastErr error
	for _, decode := range decoders {
		var env envelope
		if err := decode(data, &env); err != nil {
			lastErr = err
			continue
		}
		if env.Form != nil {
			return *env.Form, nil
		}
		var structure model.Structure
		if err := decode(data, &structure); err != nil {
			lastErr = err
			continue
		}
		return structure, nil
	}
	return model.Structure{}, fmt.Errorf("loader: parse %s: invalid JSON or YAML: %w", source, lastErr)
}
