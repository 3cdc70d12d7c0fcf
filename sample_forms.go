package formflow

import (
	"embed"
	"io/fs"
)

//go:embed forms/*.yaml forms/*.json
var embeddedForms embed.FS

// SampleFormsFS exposes the bundled sample form structures (committed under
// forms/) laid out for loader.FileSource: default.yaml for any roll number
// and R100.json for roll number R100.
//
// Typical use:
//
//	src := loader.NewFileSource(formflow.SampleFormsFS())
func SampleFormsFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		return embeddedForms
	}
	return sub
}
