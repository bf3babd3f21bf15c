package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/fetch"
	"github.com/nao1215/jpfill/internal/filler"
	"github.com/nao1215/jpfill/internal/model"
	"github.com/nao1215/jpfill/internal/synth"
)

// ErrNoPage is returned by steps that need a loaded page when LoadStep did
// not run or failed.
var ErrNoPage = errors.New("no page loaded")

// Loader loads an input into a page. fetch.Loader and browser.Session
// implement it.
type Loader interface {
	Load(ctx context.Context, input string) (*fetch.Page, error)
}

// LoadStep loads the input and picks the settings for its host.
type LoadStep struct {
	loader Loader
	file   *config.File
}

// NewLoadStep creates a load step. file may be nil.
func NewLoadStep(loader Loader, file *config.File) *LoadStep {
	return &LoadStep{loader: loader, file: file}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(ctx context.Context, job *Job) error {
	page, err := s.loader.Load(ctx, job.Input)
	if err != nil {
		return err
	}
	job.Page = page
	job.Settings = s.file.SettingsForURL(page.URL)
	return nil
}

// FillStep runs one fill pass over the loaded page.
type FillStep struct {
	seed   uint64
	now    func() time.Time
	logger *slog.Logger
}

// FillStepOption configures a FillStep.
type FillStepOption func(*FillStep)

// WithSeed makes the synthetic data reproducible. Each job derives its own
// seed from the batch seed and its index. Zero keeps random seeding.
func WithSeed(seed uint64) FillStepOption {
	return func(s *FillStep) {
		s.seed = seed
	}
}

// WithClock sets the clock used for birth dates and relative deadlines.
func WithClock(now func() time.Time) FillStepOption {
	return func(s *FillStep) {
		s.now = now
	}
}

// WithFillLogger sets the logger handed to the filler.
func WithFillLogger(logger *slog.Logger) FillStepOption {
	return func(s *FillStep) {
		s.logger = logger
	}
}

// NewFillStep creates a fill step.
func NewFillStep(opts ...FillStepOption) *FillStep {
	s := &FillStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *FillStep) Name() string {
	return "fill"
}

// Do executes the fill step. The job's report is replaced by the pass
// report, keeping the steps recorded so far.
func (s *FillStep) Do(ctx context.Context, job *Job) error {
	if job.Page == nil {
		return ErrNoPage
	}

	if job.Filler == nil {
		job.Filler = newFiller(job, s.seed, s.now, s.logger)
	}

	report, err := job.Filler.FillAll(ctx, job.Page.Doc, job.PageURL())
	if err != nil {
		return err
	}
	for _, step := range job.Report.Data().PerformedSteps {
		report.AddStep(step)
	}
	job.Report = report
	job.Count = report.Filled
	return nil
}

func newFiller(job *Job, seed uint64, now func() time.Time, logger *slog.Logger) *filler.Filler {
	if seed != 0 {
		seed += uint64(job.Index) //nolint:gosec // index is never negative
	}
	opts := []filler.Option{
		filler.WithSettings(job.Settings),
		filler.WithSource(synth.NewSource(seed)),
		filler.WithLogger(logger.With("input", job.Input)),
	}
	if now != nil {
		opts = append(opts, filler.WithClock(now))
	}
	return filler.New(opts...)
}

// SettleStep waits for deferred widget writes and stamps the finish time.
type SettleStep struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewSettleStep creates a settle step. A zero timeout stamps the finish
// time without waiting.
func NewSettleStep(timeout time.Duration, logger *slog.Logger) *SettleStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettleStep{timeout: timeout, logger: logger}
}

// Name returns the step name.
func (s *SettleStep) Name() string {
	return "settle"
}

// Do executes the settle step. Running out of time marks the report as
// timed out but is not an error: the filled count stands.
func (s *SettleStep) Do(ctx context.Context, job *Job) error {
	defer job.Report.Finish()

	if s.timeout <= 0 || job.Filler == nil {
		return nil
	}

	settleCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := job.Filler.Settle(settleCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		job.Report.SetTimedOut()
		s.logger.Warn("deferred fields did not settle",
			"input", job.Input,
			"pending", job.Report.Pending(),
			"timeout", s.timeout,
		)
	}
	return nil
}

// Applier writes fill results into a live page. browser.Session
// implements it.
type Applier interface {
	Apply(ctx context.Context, pageURL string, data model.FillReportData) (int, error)
}

// ApplyStep writes the values of the pass into the browser tab that
// loaded the page.
type ApplyStep struct {
	applier Applier
}

// NewApplyStep creates an apply step.
func NewApplyStep(applier Applier) *ApplyStep {
	return &ApplyStep{applier: applier}
}

// Name returns the step name.
func (s *ApplyStep) Name() string {
	return "apply"
}

// Do executes the apply step.
func (s *ApplyStep) Do(ctx context.Context, job *Job) error {
	n, err := s.applier.Apply(ctx, job.Input, job.Report.Data())
	job.Applied = n
	return err
}

// RenderStep serializes the filled document and optionally writes it to
// a directory.
type RenderStep struct {
	outputDir string
}

// NewRenderStep creates a render step. An empty outputDir keeps the markup
// in the job only.
func NewRenderStep(outputDir string) *RenderStep {
	return &RenderStep{outputDir: outputDir}
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do executes the render step.
func (s *RenderStep) Do(_ context.Context, job *Job) error {
	if job.Page == nil {
		return ErrNoPage
	}
	markup, err := job.Page.Doc.HTML()
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	job.HTML = markup

	if s.outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(s.outputDir, OutputName(job.Input))
	if err := os.WriteFile(path, []byte(markup), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	job.OutputPath = path
	return nil
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// OutputName derives the file name of the filled copy of input: the base
// name for files, host and path for URLs.
func OutputName(input string) string {
	var name string
	if u, err := url.Parse(input); err == nil && fetch.IsURL(input) {
		name = u.Host + strings.TrimSuffix(u.Path, "/")
	} else {
		name = filepath.Base(input)
	}
	name = strings.TrimSuffix(strings.TrimSuffix(name, ".html"), ".htm")
	name = strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "_.")
	if name == "" {
		name = "page"
	}
	return name + ".filled.html"
}

// Store records fill reports. database.HistoryDB implements it.
type Store interface {
	SavePass(ctx context.Context, data model.FillReportData) error
}

// StoreStep saves the report of the pass.
type StoreStep struct {
	store Store
}

// NewStoreStep creates a store step.
func NewStoreStep(store Store) *StoreStep {
	return &StoreStep{store: store}
}

// Name returns the step name.
func (s *StoreStep) Name() string {
	return "store"
}

// Do executes the store step. The stored report lists the steps up to and
// including this one.
func (s *StoreStep) Do(ctx context.Context, job *Job) error {
	data := job.Report.Data()
	if data.PassID == "" {
		return errors.New("nothing to store: no fill pass ran")
	}
	data.PerformedSteps = append(data.PerformedSteps, s.Name())
	return s.store.SavePass(ctx, data)
}

// ClearStep resets the form controls of the loaded page.
type ClearStep struct {
	logger *slog.Logger
}

// NewClearStep creates a clear step.
func NewClearStep(logger *slog.Logger) *ClearStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClearStep{logger: logger}
}

// Name returns the step name.
func (s *ClearStep) Name() string {
	return "clear"
}

// Do executes the clear step.
func (s *ClearStep) Do(_ context.Context, job *Job) error {
	if job.Page == nil {
		return ErrNoPage
	}
	if job.Filler == nil {
		job.Filler = newFiller(job, 0, nil, s.logger)
	}
	job.Count = job.Filler.ClearAll(job.Page.Doc)
	return nil
}
