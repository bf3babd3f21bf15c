package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/jpfill/internal/browser"
	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/database"
	"github.com/nao1215/jpfill/internal/fetch"
	"github.com/nao1215/jpfill/internal/log"
	"github.com/nao1215/jpfill/internal/pipeline"
	"github.com/nao1215/jpfill/internal/report"
)

// errOutputDirRequired is returned when several filled pages would all be
// written to stdout.
var errOutputDirRequired = errors.New("multiple inputs require --output: only a single filled page can be written to stdout")

// NewFillCmd creates the fill command.
func NewFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill [file|url...]",
		Short: "Fill the forms of HTML pages with Japanese test data",
		Long: `Fill loads each page, classifies its form controls and fills them with
synthetic Japanese data.

Text inputs, selects, checkboxes and radios are written directly. Custom
select, multi-select, number and date picker widgets are driven through
the events their libraries listen for; their writes settle within
--settle-timeout.

A single filled page is written to stdout unless --output is given. The
report goes to stdout, or to stderr while the page occupies stdout.
Every pass is recorded in the history database (see 'jpfill history').

Examples:
  # Fill a local file and print the result
  jpfill fill signup.html > filled.html

  # Fill several pages into a directory with a fixed seed
  jpfill fill -o out/ --seed 42 signup.html https://example.jp/contact

  # Render and fill a live page in headless Chrome
  jpfill fill --browser https://localhost:5173/job-postings/create

  # Attach to a running Chrome (chrome --remote-debugging-port=9222)
  jpfill fill --browser --chrome-url ws://127.0.0.1:9222/devtools/browser/<id> https://example.jp/

  # Output a JSON report
  jpfill fill --json -o out/ signup.html`,
		Args: cobra.ArbitraryArgs,
		RunE: runFillCmd,
	}

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Directory for the filled pages (default: stdout for a single input)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report-file", "r", "",
		"Write the report to the specified file path (creates directories if needed)")

	// Fill behavior flags
	cmd.Flags().Uint64P("seed", "s", 0,
		"Seed for reproducible data (0 picks a random seed)")
	cmd.Flags().DurationP("settle-timeout", "S", config.DefaultSettleTimeout,
		"How long to wait for widget writes to settle (0 disables waiting)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .jpfill in current or home directory)")

	// Loading flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for loading each page")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for fetched pages")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum size of a fetched page in bytes (0 for no limit)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of pages filled concurrently")
	cmd.Flags().BoolP("browser", "B", false,
		"Render and fill pages in headless Chrome")
	cmd.Flags().String("chrome-url", "",
		"DevTools websocket URL of a running Chrome (requires --browser)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not record passes in the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

func runFillCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildFillConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if len(cfg.Inputs) > 1 && cfg.OutputDir == "" {
		return errOutputDirRequired
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runFill(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// commandContext returns the context cobra passed to the command, or
// Background when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildFillConfig creates a Config from the fill command flags.
func buildFillConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Inputs = args
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.OutputDir, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report-file"); err != nil {
		return nil, err
	}
	if cfg.Seed, err = cmd.Flags().GetUint64("seed"); err != nil {
		return nil, err
	}
	if cfg.SettleTimeout, err = cmd.Flags().GetDuration("settle-timeout"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.Browser, err = cmd.Flags().GetBool("browser"); err != nil {
		return nil, err
	}
	if cfg.ChromeURL, err = cmd.Flags().GetString("chrome-url"); err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.File, err = loadSettingsFile(cfg.ConfigFilePath); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSettingsFile loads the configuration file. An explicitly given path
// must exist; without one, a missing file yields an empty configuration.
func loadSettingsFile(explicitPath string) (*config.File, error) {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return nil, fmt.Errorf("configuration file not found: %s", explicitPath)
		}
		return &config.File{Sites: make(map[string]config.Settings)}, nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return file, nil
}

// runFill fills every input and writes the pages and reports.
func runFill(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	logger.Info("starting fill",
		"inputs", cfg.Inputs,
		"browser", cfg.Browser,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var history *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		history, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer history.Close()
		logger.Info("database opened", "path", history.Path())
	}

	inputs := cfg.Inputs
	var loader pipeline.Loader
	var session *browser.Session
	if cfg.Browser {
		var err error
		if inputs, err = browserInputs(cfg.Inputs); err != nil {
			return err
		}
		session = browser.NewSession(browser.Config{
			RemoteURL:  cfg.ChromeURL,
			Timeout:    cfg.Timeout,
			UserAgent:  cfg.UserAgent,
			ProfileDir: filepath.Join(config.XDGCacheDir(), "chrome"),
			NoSandbox:  os.Geteuid() == 0,
			Logger:     logger,
		})
		defer session.Close()
		loader = session
	} else {
		loader = newFetchLoader(cfg, logger)
	}

	newPipeline := func() *pipeline.Pipeline {
		p := pipeline.New(pipeline.WithLogger(logger))
		p.AddSteps(
			pipeline.NewLoadStep(loader, cfg.File),
			pipeline.NewFillStep(
				pipeline.WithSeed(cfg.Seed),
				pipeline.WithFillLogger(logger),
			),
			pipeline.NewSettleStep(cfg.SettleTimeout, logger),
		)
		if session != nil {
			p.AddStep(pipeline.NewApplyStep(session))
		}
		p.AddStep(pipeline.NewRenderStep(cfg.OutputDir))
		if history != nil {
			p.AddStep(pipeline.NewStoreStep(history))
		}
		return p
	}

	bp := pipeline.NewBatchProcessor(newPipeline,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	startTime := time.Now()
	jobs, batchErr := bp.ProcessBatch(ctx, inputs)

	// The filled page owns stdout when there is a single input and no
	// output directory.
	pageToStdout := cfg.OutputDir == ""
	reportDefault := stdout
	if pageToStdout {
		reportDefault = stderr
	}
	reportOut, closeReport, err := openReportOutput(cfg.ReportFile, reportDefault)
	if err != nil {
		return err
	}
	defer closeReport()

	writer := newReportWriter(cfg, reportOut)
	failed := 0
	for _, job := range jobs {
		if job == nil {
			continue
		}
		data := job.Report.Data()
		if data.ErrorMessage != "" {
			failed++
			fmt.Fprintf(stderr, "Fill error for %s: %s\n", job.Input, data.ErrorMessage)
		}
		if _, err := writer.WriteData(data); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if pageToStdout && job.HTML != "" {
			if _, err := io.WriteString(stdout, job.HTML); err != nil {
				return fmt.Errorf("failed to write page: %w", err)
			}
		}
		if job.OutputPath != "" {
			fmt.Fprintf(stderr, "Wrote %s\n", job.OutputPath)
		}
		// Every report format carries the notice; echo it when the report
		// went to a file.
		if cfg.ReportFile != "" && data.PassID != "" {
			fmt.Fprintln(stderr, report.Notice(job.Count))
		}
	}

	logger.Info("fill finished",
		"inputs", len(inputs),
		"failed", failed,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if batchErr != nil {
		return batchErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
	}
	return nil
}

// newFetchLoader creates the loader for files and plain HTTP fetching.
func newFetchLoader(cfg *config.Config, logger *slog.Logger) *fetch.Loader {
	return fetch.NewLoader(
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)
}

// browserInputs turns local paths into file URLs Chrome can navigate to.
func browserInputs(inputs []string) ([]string, error) {
	out := make([]string, len(inputs))
	for i, input := range inputs {
		if fetch.IsURL(input) {
			out[i] = input
			continue
		}
		if u, err := url.Parse(input); err == nil && u.Scheme == "file" {
			out[i] = input
			continue
		}
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, fmt.Errorf("invalid input %q: %w", input, err)
		}
		out[i] = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
	return out, nil
}

// openReportOutput opens the report file, or returns fallback when path is
// empty. The returned function closes the file.
func openReportOutput(path string, fallback io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return fallback, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	// Reports contain the generated values, so only the owner may read them.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // user-provided report path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newReportWriter picks the report format requested by cfg.
func newReportWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
}
