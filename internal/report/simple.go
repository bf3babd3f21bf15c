package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/jpfill/internal/model"
)

// SimpleWriter outputs plain text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty lists statuses with a zero count in the summary.
	showEmpty bool

	// verbose also lists skipped, ignored and unresolved controls.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty summary rows.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose lists every control, not only the ones that were written.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs a snapshot of the report.
func (w *SimpleWriter) Write(report *model.FillReport) (int, error) {
	return w.WriteData(report.Data())
}

// WriteData outputs the report in human-readable format.
func (w *SimpleWriter) WriteData(data model.FillReportData) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, data)
	w.writeSummary(&sb, data)
	w.writeOutcomes(&sb, data)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, data model.FillReportData) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                           JPFILL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Source:       %s\n", data.Source)
	if data.PassID != "" {
		fmt.Fprintf(sb, "Pass ID:      %s\n", data.PassID)
	}
	fmt.Fprintf(sb, "Page Context: %s\n", data.PageContext)
	fmt.Fprintf(sb, "Fill Date:    %s\n", data.StartedAt.Format("2006-01-02 15:04:05 MST"))
	if d := data.Duration(); d > 0 {
		fmt.Fprintf(sb, "Duration:     %s\n", d)
	}

	switch {
	case data.ErrorMessage != "":
		fmt.Fprintf(sb, "Status:       ERROR - %s\n", data.ErrorMessage)
	case data.TimedOut:
		sb.WriteString("Status:       TIMED OUT (deferred fields still pending)\n")
	default:
		sb.WriteString("Status:       Complete\n")
	}

	sb.WriteString("\n")
	sb.WriteString(Notice(data.Filled))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, data model.FillReportData) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	counts := data.CountByStatus()
	for _, status := range statusOrder {
		if counts[status] == 0 && !w.showEmpty {
			continue
		}
		fmt.Fprintf(sb, "  %-11s %d\n", strings.ToUpper(string(status))+":", counts[status])
	}
	fmt.Fprintf(sb, "\n  %-11s %d fields\n\n", "TOTAL:", len(data.Outcomes))
}

func (w *SimpleWriter) writeOutcomes(sb *strings.Builder, data model.FillReportData) {
	lines := make([]string, 0, len(data.Outcomes))
	for _, o := range data.Outcomes {
		if !w.verbose && !o.Status.Counted() && o.Status != model.StatusFailed {
			continue
		}
		lines = append(lines, w.formatOutcome(o))
	}
	if len(lines) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FIELDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(lines) == 0 {
		sb.WriteString("  No fields\n\n")
		return
	}
	for _, line := range lines {
		sb.WriteString(line)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) formatOutcome(o model.FieldOutcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  [%s] %s (%s, %s)", statusIndicator(o.Status), o.Selector, o.FieldType, o.Family)
	if o.Value != "" {
		fmt.Fprintf(&sb, " = %s", o.Value)
	}
	sb.WriteString("\n")
	if o.Detail != "" {
		fmt.Fprintf(&sb, "      %s\n", o.Detail)
	}
	return sb.String()
}

// statusIndicator returns a short marker for the status.
func statusIndicator(status model.Status) string {
	switch status {
	case model.StatusFilled:
		return "+"
	case model.StatusDeferred:
		return "~"
	case model.StatusSkipped:
		return "-"
	case model.StatusIgnored:
		return "i"
	case model.StatusUnresolved:
		return "?"
	case model.StatusFailed:
		return "x"
	default:
		return " "
	}
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by jpfill\n")
	sb.WriteString("https://github.com/nao1215/jpfill\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
