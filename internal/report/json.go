package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/jpfill/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs a snapshot of the report in JSON format.
func (w *JSONWriter) Write(report *model.FillReport) (int, error) {
	return w.WriteData(report.Data())
}

// WriteData outputs the report in JSON format.
func (w *JSONWriter) WriteData(data model.FillReportData) (int, error) {
	return w.writeJSON(data)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

// Summary is the aggregate view of a report.
type Summary struct {
	Filled   int                  `json:"filled"`
	Notice   string               `json:"notice"`
	ByStatus map[model.Status]int `json:"by_status"`
	ByFamily map[model.Family]int `json:"by_family"`
}

// NewSummary aggregates the report data.
func NewSummary(data model.FillReportData) *Summary {
	return &Summary{
		Filled:   data.Filled,
		Notice:   Notice(data.Filled),
		ByStatus: data.CountByStatus(),
		ByFamily: data.CountByFamily(),
	}
}

// JSONReport wraps a report with output metadata.
type JSONReport struct {
	// Version is the jpfill version that generated this report.
	Version string `json:"version"`

	Report  model.FillReportData `json:"report"`
	Summary *Summary             `json:"summary"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(data model.FillReportData, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Report:  data,
		Summary: NewSummary(data),
	}
}

// FullJSONWriter outputs reports with the metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs a snapshot of the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.FillReport) (int, error) {
	return w.WriteData(report.Data())
}

// WriteData outputs the report wrapped with metadata.
func (w *FullJSONWriter) WriteData(data model.FillReportData) (int, error) {
	return w.writeJSON(NewJSONReport(data, w.version))
}
