// Package report renders fill reports.
//
// Three formats are available:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter and FullJSONWriter: structured output for tools and the HTTP API
//   - MarkdownWriter: a shareable summary with tables and a family chart
//
// Writers accept either a live *model.FillReport, which is snapshotted under
// its lock, or a detached model.FillReportData such as one read back from the
// history database.
package report
