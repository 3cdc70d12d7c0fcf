package sink

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formflow/pkg/model"
)

// OutputFormat controls how Writer serializes submissions.
type OutputFormat string

const (
	// OutputFormatJSON emits the submission as indented JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits the answers as application/x-www-form-urlencoded.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat validates a user-supplied format name.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch OutputFormat(raw) {
	case "", OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return OutputFormat(raw), nil
	default:
		return "", fmt.Errorf("sink: unknown output format %q", raw)
	}
}

// ContentType reports the MIME type of the serialized output.
func (f OutputFormat) ContentType() string {
	switch f {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

//go:embed templates/summary.tpl
var summaryTemplate string

var (
	summaryOnce sync.Once
	summaryTpl  *pongo2.Template
	summaryErr  error
)

func summary() (*pongo2.Template, error) {
	summaryOnce.Do(func() {
		summaryTpl, summaryErr = pongo2.FromString(summaryTemplate)
	})
	return summaryTpl, summaryErr
}

// Writer serializes each submission onto an io.Writer.
type Writer struct {
	mu     sync.Mutex
	out    io.Writer
	format OutputFormat
}

// NewWriter constructs a Writer sink.
func NewWriter(out io.Writer, format OutputFormat) *Writer {
	if format == "" {
		format = OutputFormatJSON
	}
	return &Writer{out: out, format: format}
}

// Submit serializes submission in the configured format.
func (w *Writer) Submit(ctx context.Context, submission Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.out == nil {
		return errors.New("sink: writer is nil")
	}
	payload, err := Serialize(submission, w.format)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.out.Write(payload); err != nil {
		return fmt.Errorf("sink: write: %w", err)
	}
	return nil
}

// Serialize renders submission in format.
func Serialize(submission Submission, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(submission.Answers) + "\n"), nil
	case OutputFormatPrettyText:
		text, err := prettyPrint(submission)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	default:
		data, err := json.MarshalIndent(submission, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("sink: encode json: %w", err)
		}
		return append(data, '\n'), nil
	}
}

func flattenForm(answers model.AnswerSet) string {
	flattened := url.Values{}
	for key, value := range answers {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				flattened.Add(key+"[]", item)
			}
		default:
			flattened.Set(key, fmt.Sprint(v))
		}
	}
	return flattened.Encode()
}

func prettyPrint(submission Submission) (string, error) {
	tpl, err := summary()
	if err != nil {
		return "", fmt.Errorf("sink: parse summary template: %w", err)
	}
	out, err := tpl.Execute(pongo2.Context{
		"title":        submission.Title,
		"form_id":      submission.FormID,
		"version":      submission.Version,
		"user_name":    submission.User.Name,
		"roll_number":  submission.User.RollNumber,
		"submitted_at": submission.SubmittedAt.UTC().Format(time.RFC3339),
		"rows":         summaryRows(submission),
	})
	if err != nil {
		return "", fmt.Errorf("sink: render summary: %w", err)
	}
	return out, nil
}

// summaryRows lists answers in field order with display labels. Answers
// without a matching field are appended sorted by key.
func summaryRows(submission Submission) []map[string]string {
	rows := make([]map[string]string, 0, len(submission.Answers))
	seen := make(map[string]struct{}, len(submission.Fields))
	for _, field := range submission.Fields {
		value, ok := submission.Answers[field.ID]
		if !ok {
			continue
		}
		seen[field.ID] = struct{}{}
		label := field.Label
		if label == "" {
			label = field.ID
		}
		rows = append(rows, map[string]string{"label": label, "value": displayValue(field, value)})
	}

	var rest []string
	for key := range submission.Answers {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		rows = append(rows, map[string]string{"label": key, "value": fmt.Sprint(submission.Answers[key])})
	}
	return rows
}

func displayValue(field model.Field, value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case string:
		if field.Kind.IsChoice() {
			if label, ok := field.OptionLabel(v); ok {
				return label
			}
		}
		if v == "" {
			return "-"
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}
