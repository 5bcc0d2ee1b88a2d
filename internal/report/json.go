package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/a11yagg/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library. The report types are plain structs and the category type
// implements the marshaling interfaces, which is all we need.
type JSONWriter struct {
	baseWriter

	// version is recorded in the output wrapper.
	version string

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the tool version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// WithJSONOptions sets the view sizes and guidance.
func WithJSONOptions(opts Options) JSONWriterOption {
	return func(w *JSONWriter) {
		w.baseWriter = newBaseWriter(w.output, opts)
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output, DefaultOptions()),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport wraps the analysis with derived views.
//
// Design decision: We wrap the report rather than adding fields to
// AnalysisReport so the stored report stays free of output-specific data.
type JSONReport struct {
	// Version is the a11yagg version that generated this report.
	Version string `json:"version,omitempty"`

	// Report is the full analysis.
	Report *model.AnalysisReport `json:"report"`

	// Top is the priority table prefix.
	Top []model.RankedIssue `json:"top"`

	// Recommendations pairs the leading issues with guidance.
	Recommendations []model.Recommendation `json:"recommendations"`
}

// Write outputs the report wrapped with derived views.
func (w *JSONWriter) Write(report *model.AnalysisReport) (int, error) {
	return w.writeJSON(&JSONReport{
		Version:         w.version,
		Report:          report,
		Top:             w.top(report),
		Recommendations: w.recommendations(report),
	})
}

// WriteValue outputs any value with the writer's formatting.
func (w *JSONWriter) WriteValue(v any) (int, error) {
	return w.writeJSON(v)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
