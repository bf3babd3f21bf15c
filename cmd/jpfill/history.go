package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/database"
	"github.com/nao1215/jpfill/internal/model"
	"github.com/nao1215/jpfill/internal/report"
)

// defaultHistoryLimit caps the number of listed passes.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// It reads the fill passes recorded by 'jpfill fill'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [file|url]",
		Short: "Show recorded fill passes",
		Long: `History shows the fill passes recorded in the database.

Without arguments it lists every page that has been filled. With a page it
lists the passes of that page, newest first.

Examples:
  # List filled pages
  jpfill history

  # List passes of a page
  jpfill history https://example.jp/signup

  # Show the full report of a pass by ID
  jpfill history --id 12

  # Compare the latest two passes of a page
  jpfill history --compare https://example.jp/signup

  # Outcomes per field type for a host
  jpfill history --stats example.jp

  # Remove passes older than a date
  jpfill history --prune 2026-01-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("id", "i", 0,
		"Show the report of the pass with this ID (use the listing to see IDs)")
	cmd.Flags().BoolP("compare", "C", false,
		"Compare the latest two passes of the page")
	cmd.Flags().BoolP("stats", "S", false,
		"Show outcome counts per field type (optionally for one host)")
	cmd.Flags().String("prune", "",
		"Delete passes recorded before this date (format: YYYY-MM-DD)")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of passes to list (0 for all)")

	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output reports in Markdown format")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// historyOptions are the parsed flags of the history command.
type historyOptions struct {
	source   string
	passID   int64
	compare  bool
	stats    bool
	prune    time.Time
	limit    int
	json     bool
	markdown bool
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryOptions(cmd, args)
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return runHistory(commandContext(cmd), db, opts, cmd.OutOrStdout())
}

// parseHistoryOptions validates the flags before the database is opened.
func parseHistoryOptions(cmd *cobra.Command, args []string) (historyOptions, error) {
	var opts historyOptions
	if len(args) > 0 {
		opts.source = args[0]
	}

	var err error
	if opts.passID, err = cmd.Flags().GetInt64("id"); err != nil {
		return opts, err
	}
	if opts.compare, err = cmd.Flags().GetBool("compare"); err != nil {
		return opts, err
	}
	if opts.stats, err = cmd.Flags().GetBool("stats"); err != nil {
		return opts, err
	}
	if opts.limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return opts, err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return opts, err
	}
	prune, err := cmd.Flags().GetString("prune")
	if err != nil {
		return opts, err
	}

	if opts.json && opts.markdown {
		return opts, config.ErrConflictingReportFormats
	}
	if opts.compare && opts.source == "" {
		return opts, errors.New("--compare requires a page (use 'jpfill history' to see recorded pages)")
	}
	if prune != "" {
		opts.prune, err = time.ParseInLocation("2006-01-02", prune, time.Local)
		if err != nil {
			return opts, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
	}
	return opts, nil
}

// runHistory dispatches to the requested view.
func runHistory(ctx context.Context, db *database.HistoryDB, opts historyOptions, out io.Writer) error {
	switch {
	case !opts.prune.IsZero():
		return pruneHistory(ctx, db, opts.prune, out)
	case opts.passID > 0:
		return showPass(ctx, db, opts, out)
	case opts.compare:
		return comparePasses(ctx, db, opts, out)
	case opts.stats:
		return showFieldStats(ctx, db, opts, out)
	case opts.source != "":
		return listPasses(ctx, db, opts, out)
	default:
		return listSources(ctx, db, opts, out)
	}
}

func listSources(ctx context.Context, db *database.HistoryDB, opts historyOptions, out io.Writer) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}
	if opts.json {
		return writeJSON(out, sources)
	}

	if len(sources) == 0 {
		fmt.Fprintln(out, "No filled pages found in the database.")
		fmt.Fprintln(out, "\nUse 'jpfill fill <file|url>' to fill a page.")
		return nil
	}

	fmt.Fprintf(out, "Filled pages (%d):\n\n", len(sources))
	for _, source := range sources {
		fmt.Fprintf(out, "  • %s\n", source)
	}
	fmt.Fprintln(out, "\nUse 'jpfill history <page>' to see the passes of a page.")
	return nil
}

func listPasses(ctx context.Context, db *database.HistoryDB, opts historyOptions, out io.Writer) error {
	passes, err := db.History(ctx, opts.source, opts.limit)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if opts.json {
		return writeJSON(out, passes)
	}

	if len(passes) == 0 {
		fmt.Fprintf(out, "No passes found for %s\n", opts.source)
		return nil
	}

	fmt.Fprintf(out, "Passes for %s (%d):\n\n", opts.source, len(passes))
	fmt.Fprintf(out, "  %-6s  %-20s  %-11s  %-6s  %s\n", "ID", "Date", "Context", "Filled", "Outcomes")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))
	for _, meta := range passes {
		filled := fmt.Sprintf("%d", meta.Filled)
		if meta.TimedOut {
			filled += "*"
		}
		fmt.Fprintf(out, "  %-6d  %-20s  %-11s  %-6s  %s\n",
			meta.ID,
			meta.Timestamp.Local().Format("2006-01-02 15:04:05"),
			meta.PageContext,
			filled,
			formatStatusSummary(meta.StatusSummary),
		)
	}
	fmt.Fprintln(out, "\n  * deferred fields did not settle before the timeout")
	fmt.Fprintln(out, "\nUse 'jpfill history --id <id>' to see the report of a pass.")
	return nil
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

// formatStatusSummary formats status counts as "filled:3 skipped:1".
func formatStatusSummary(summary map[model.Status]int) string {
	var parts []string
	for _, status := range statusOrder {
		if n := summary[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", status, n))
		}
	}
	if len(parts) == 0 {
		return "no fields"
	}
	return strings.Join(parts, " ")
}

func showPass(ctx context.Context, db *database.HistoryDB, opts historyOptions, out io.Writer) error {
	data, err := db.GetPassByID(ctx, opts.passID)
	if err != nil {
		return fmt.Errorf("failed to get pass with ID %d: %w", opts.passID, err)
	}
	if data == nil {
		return fmt.Errorf("pass with ID %d not found", opts.passID)
	}

	var w report.Writer
	switch {
	case opts.json:
		w = report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case opts.markdown:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(true))
	}
	_, err = w.WriteData(*data)
	return err
}

func showFieldStats(ctx context.Context, db *database.HistoryDB, opts historyOptions, out io.Writer) error {
	host := hostArg(opts.source)
	stats, err := db.FieldStats(ctx, host)
	if err != nil {
		return fmt.Errorf("failed to get field stats: %w", err)
	}
	if opts.json {
		return writeJSON(out, stats)
	}

	scope := "all pages"
	if host != "" {
		scope = host
	}
	if len(stats) == 0 {
		fmt.Fprintf(out, "No recorded fields for %s\n", scope)
		return nil
	}

	fmt.Fprintf(out, "Field outcomes for %s:\n\n", scope)
	fmt.Fprintf(out, "  %-24s  %-11s  %s\n", "Field type", "Status", "Count")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	for _, s := range stats {
		fmt.Fprintf(out, "  %-24s  %-11s  %d\n", s.FieldType, s.Status, s.Count)
	}
	return nil
}

// hostArg accepts a bare host or a URL and returns the host.
func hostArg(arg string) string {
	if u, err := url.Parse(arg); err == nil && u.Host != "" {
		return u.Host
	}
	return arg
}

func pruneHistory(ctx context.Context, db *database.HistoryDB, cutoff time.Time, out io.Writer) error {
	n, err := db.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	fmt.Fprintf(out, "Deleted %d passes recorded before %s\n", n, cutoff.Format("2006-01-02"))
	return nil
}

// ComparisonResult holds the differences between two passes of a page.
type ComparisonResult struct {
	Source string `json:"source"`

	Previous PassSummary `json:"previous"`
	Current  PassSummary `json:"current"`

	// Changed lists controls whose field type or status differs.
	Changed []FieldChange `json:"changed,omitempty"`

	// Added lists controls only present in the current pass.
	Added []model.FieldOutcome `json:"added,omitempty"`

	// Removed lists controls only present in the previous pass.
	Removed []model.FieldOutcome `json:"removed,omitempty"`

	UnchangedCount int `json:"unchanged_count"`
}

// PassSummary describes one side of a comparison.
type PassSummary struct {
	PassID    string    `json:"pass_id"`
	StartedAt time.Time `json:"started_at"`
	Filled    int       `json:"filled"`
	TimedOut  bool      `json:"timed_out"`
}

// FieldChange is a control classified or written differently between passes.
type FieldChange struct {
	Selector string          `json:"selector"`
	Before   model.FieldType `json:"before_type"`
	After    model.FieldType `json:"after_type"`
	From     model.Status    `json:"from_status"`
	To       model.Status    `json:"to_status"`
}

func comparePasses(ctx context.Context, db *database.HistoryDB, opts historyOptions, out io.Writer) error {
	passes, err := db.History(ctx, opts.source, 2)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if len(passes) < 2 {
		return fmt.Errorf("at least 2 passes are required for comparison (found %d)", len(passes))
	}

	current, err := db.GetPass(ctx, passes[0].PassID)
	if err != nil {
		return err
	}
	previous, err := db.GetPass(ctx, passes[1].PassID)
	if err != nil {
		return err
	}
	if current == nil || previous == nil {
		return fmt.Errorf("passes of %s disappeared during comparison", opts.source)
	}

	result := compareReports(*previous, *current)
	if opts.json {
		return writeJSON(out, result)
	}
	writeComparisonText(out, result)
	return nil
}

// compareReports matches the outcomes of two passes by selector.
func compareReports(previous, current model.FillReportData) *ComparisonResult {
	result := &ComparisonResult{
		Source:   current.Source,
		Previous: summarize(previous),
		Current:  summarize(current),
	}

	before := make(map[string]model.FieldOutcome, len(previous.Outcomes))
	for _, o := range previous.Outcomes {
		before[o.Selector] = o
	}
	seen := make(map[string]bool, len(current.Outcomes))

	for _, o := range current.Outcomes {
		seen[o.Selector] = true
		prev, ok := before[o.Selector]
		switch {
		case !ok:
			result.Added = append(result.Added, o)
		case prev.FieldType != o.FieldType || prev.Status != o.Status:
			result.Changed = append(result.Changed, FieldChange{
				Selector: o.Selector,
				Before:   prev.FieldType,
				After:    o.FieldType,
				From:     prev.Status,
				To:       o.Status,
			})
		default:
			result.UnchangedCount++
		}
	}
	for _, o := range previous.Outcomes {
		if !seen[o.Selector] {
			result.Removed = append(result.Removed, o)
		}
	}

	slices.SortFunc(result.Changed, func(a, b FieldChange) int {
		return strings.Compare(a.Selector, b.Selector)
	})
	return result
}

func summarize(d model.FillReportData) PassSummary {
	return PassSummary{
		PassID:    d.PassID,
		StartedAt: d.StartedAt,
		Filled:    d.Filled,
		TimedOut:  d.TimedOut,
	}
}

func writeComparisonText(out io.Writer, result *ComparisonResult) {
	fmt.Fprintf(out, "Pass Comparison: %s\n", result.Source)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious pass: %s  filled %d\n",
		result.Previous.StartedAt.Local().Format("2006-01-02 15:04:05"), result.Previous.Filled)
	fmt.Fprintf(out, "Current pass:  %s  filled %d (%s)\n",
		result.Current.StartedAt.Local().Format("2006-01-02 15:04:05"), result.Current.Filled,
		formatDelta(result.Current.Filled-result.Previous.Filled))

	if len(result.Changed) > 0 {
		fmt.Fprintf(out, "\nChanged Fields (%d):\n", len(result.Changed))
		for _, c := range result.Changed {
			fmt.Fprintf(out, "  [~] %s: %s/%s -> %s/%s\n", c.Selector, c.Before, c.From, c.After, c.To)
		}
	}
	if len(result.Added) > 0 {
		fmt.Fprintf(out, "\nNew Fields (%d):\n", len(result.Added))
		for _, o := range result.Added {
			fmt.Fprintf(out, "  [+] %s: %s/%s\n", o.Selector, o.FieldType, o.Status)
		}
	}
	if len(result.Removed) > 0 {
		fmt.Fprintf(out, "\nRemoved Fields (%d):\n", len(result.Removed))
		for _, o := range result.Removed {
			fmt.Fprintf(out, "  [-] %s: %s/%s\n", o.Selector, o.FieldType, o.Status)
		}
	}
	fmt.Fprintf(out, "\nUnchanged: %d fields\n", result.UnchangedCount)
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%d", delta)
	}
	return fmt.Sprintf("%d", delta)
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
