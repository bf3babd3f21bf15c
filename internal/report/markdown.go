package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/jpfill/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a snapshot of the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.FillReport) (int, error) {
	return w.WriteData(report.Data())
}

// WriteData outputs the report in Markdown format.
func (w *MarkdownWriter) WriteData(data model.FillReportData) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, data)
	w.writeSummary(md, data)
	w.writeOutcomes(md, data)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, data model.FillReportData) {
	md.H1("jpfill Report")
	md.PlainText("")

	rows := [][]string{
		{"Source", "`" + data.Source + "`"},
	}
	if data.PassID != "" {
		rows = append(rows, []string{"Pass ID", "`" + data.PassID + "`"})
	}
	rows = append(rows,
		[]string{"Page Context", data.PageContext.String()},
		[]string{"Fill Date", data.StartedAt.Format("2006-01-02 15:04:05 MST")},
		[]string{"Filled", strconv.Itoa(data.Filled)},
		[]string{"Status", statusText(data)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func statusText(data model.FillReportData) string {
	if data.ErrorMessage != "" {
		return "❌ Error - " + data.ErrorMessage
	}
	if data.TimedOut {
		return "⚠️ Timed Out (deferred fields still pending)"
	}
	return "✅ Complete"
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, data model.FillReportData) {
	md.H2("Summary")
	md.PlainText("")

	counts := data.CountByStatus()
	rows := make([][]string, 0, len(statusOrder)+1)
	for _, status := range statusOrder {
		rows = append(rows, []string{string(status), strconv.Itoa(counts[status])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(len(data.Outcomes)) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if data.Filled > 0 {
		w.writePieChart(md, data)
	}
	w.writeAlert(md, data, counts)
}

// writePieChart writes a mermaid pie chart of filled controls per writer family.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, data model.FillReportData) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Filled Fields by Control Family"),
		piechart.WithShowData(true),
	)

	counts := data.CountByFamily()
	for _, family := range model.SortedFamilies(counts) {
		chart.LabelAndIntValue(string(family), uint64(counts[family])) //nolint:gosec // counts are never negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, data model.FillReportData, counts map[model.Status]int) {
	switch {
	case data.ErrorMessage != "":
		md.Cautionf("The pass did not complete: %s", data.ErrorMessage)
	case counts[model.StatusFailed] > 0:
		md.Warningf("%d field(s) could not be filled.", counts[model.StatusFailed])
	case data.TimedOut:
		md.Importantf("%d deferred field(s) had not settled when the report was written.", counts[model.StatusDeferred])
	case data.Filled == 0:
		md.Note("No fillable fields were found.")
	default:
		md.Tip(Notice(data.Filled))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeOutcomes(md *markdown.Markdown, data model.FillReportData) {
	md.H2("Fields")
	md.PlainText("")

	if len(data.Outcomes) == 0 {
		md.PlainText("No form controls found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(data.Outcomes))
	for i, o := range data.Outcomes {
		value := o.Value
		if value == "" {
			value = "-"
		}
		rows[i] = []string{
			"`" + escapeCell(o.Selector) + "`",
			o.FieldType.String(),
			string(o.Family),
			string(o.Status),
			escapeCell(truncateString(value, 40)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Selector", "Type", "Family", "Status", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, o := range data.Outcomes {
		if o.Status == model.StatusFailed && o.Detail != "" {
			md.Details(o.Selector, o.Detail)
		}
	}
	md.PlainText("")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [jpfill](https://github.com/nao1215/jpfill)*")
}
