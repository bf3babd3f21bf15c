package report

import (
	"fmt"
	"io"

	"github.com/nao1215/jpfill/internal/model"
)

// Writer renders fill reports to a destination.
type Writer interface {
	// Write snapshots the live report and renders it.
	Write(report *model.FillReport) (int, error)

	// WriteData renders an already detached report.
	WriteData(data model.FillReportData) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders one snapshot of the report with every writer.
// Stops on the first error.
func (m *MultiWriter) Write(report *model.FillReport) (int, error) {
	return m.WriteData(report.Data())
}

// WriteData renders the data with every writer.
func (m *MultiWriter) WriteData(data model.FillReportData) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteData(data)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusOrder is the display order of outcome statuses.
var statusOrder = []model.Status{
	model.StatusFilled,
	model.StatusDeferred,
	model.StatusSkipped,
	model.StatusIgnored,
	model.StatusUnresolved,
	model.StatusFailed,
}

// Notice is the one-line completion message shown after a pass.
func Notice(filled int) string {
	return fmt.Sprintf("%d 件のフィールドを入力しました", filled)
}

// truncateString shortens s to at most maxLen runes, adding an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
