package filler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/jpfill/internal/async"
	"github.com/nao1215/jpfill/internal/classifier"
	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/convention"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/model"
	"github.com/nao1215/jpfill/internal/resolver"
	"github.com/nao1215/jpfill/internal/synth"
	"github.com/nao1215/jpfill/internal/writer"
)

// ErrPassInProgress is returned when a document already has a pass in its
// synchronous phase.
var ErrPassInProgress = errors.New("a fill pass is already in progress for this document")

// Filler runs fill passes.
type Filler struct {
	settings config.Settings
	src      synth.Source
	now      func() time.Time
	logger   *slog.Logger

	mu     sync.Mutex
	passes map[*dom.Document]*pass
}

// pass tracks the latest pass on one document.
type pass struct {
	sched   *async.Scheduler
	running bool
}

// Option configures a Filler.
type Option func(*Filler)

// WithSettings sets the fill settings. Unset fields keep their defaults.
func WithSettings(s config.Settings) Option {
	return func(f *Filler) {
		f.settings = config.DefaultSettings().Merge(s)
	}
}

// WithSource sets the random source. Tests use a seeded one.
func WithSource(src synth.Source) Option {
	return func(f *Filler) {
		f.src = src
	}
}

// WithClock sets the clock used for birth dates and relative deadlines.
func WithClock(now func() time.Time) Option {
	return func(f *Filler) {
		f.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filler) {
		f.logger = logger
	}
}

// New creates a Filler with default settings and a randomly seeded source.
func New(opts ...Option) *Filler {
	f := &Filler{
		settings: config.DefaultSettings(),
		now:      time.Now,
		logger:   slog.Default(),
		passes:   make(map[*dom.Document]*pass),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.src == nil {
		f.src = synth.NewSource(0)
	}
	return f
}

// Settings returns the effective settings.
func (f *Filler) Settings() config.Settings {
	return f.settings
}

// FillAll runs one pass over doc. The returned report already carries the
// filled count; deferred outcomes settle later, see Settle. pageURL decides
// the page context and is recorded as the report source.
//
// FillAll must not be called from inside doc.Do.
func (f *Filler) FillAll(ctx context.Context, doc *dom.Document, pageURL string) (*model.FillReport, error) {
	sched, err := f.begin(ctx, doc)
	if err != nil {
		return nil, err
	}
	defer f.end(doc)

	report := model.NewFillReport(pageURL)
	report.PassID = uuid.NewString()
	report.PageContext = pageContext(pageURL)

	p := f.newPassRun(sched, report)
	p.logger.Debug("starting fill pass", "page_context", report.PageContext.String())

	doc.Do(func() {
		p.fillNative(doc)
		p.fillWidgets(doc)
	})

	p.logger.Debug("fill pass finished", "filled", report.Filled, "controls", len(report.Outcomes))
	return report, nil
}

// begin installs a new scheduler for doc, cancelling the previous pass.
func (f *Filler) begin(ctx context.Context, doc *dom.Document) (*async.Scheduler, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev := f.passes[doc]
	if prev != nil && prev.running {
		return nil, ErrPassInProgress
	}
	if prev != nil {
		prev.sched.Cancel()
	}

	sched := async.NewScheduler(ctx, doc)
	sched.OnPanic(func(r any) {
		f.logger.Error("deferred write panicked", "panic", fmt.Sprint(r))
	})
	f.passes[doc] = &pass{sched: sched, running: true}
	return sched, nil
}

func (f *Filler) end(doc *dom.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := f.passes[doc]; p != nil {
		p.running = false
	}
}

// InProgress reports whether doc has a pass in its synchronous phase.
func (f *Filler) InProgress(doc *dom.Document) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.passes[doc]
	return p != nil && p.running
}

// Settle waits until the deferred continuations of the latest pass on
// every tracked document have finished, or ctx is done.
func (f *Filler) Settle(ctx context.Context) error {
	f.mu.Lock()
	scheds := make([]*async.Scheduler, 0, len(f.passes))
	for _, p := range f.passes {
		scheds = append(scheds, p.sched)
	}
	f.mu.Unlock()

	for _, s := range scheds {
		if err := s.Wait(ctx); err != nil {
			return fmt.Errorf("deferred fields did not settle: %w", err)
		}
	}
	return nil
}

// Release cancels outstanding work for doc and forgets it.
func (f *Filler) Release(doc *dom.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := f.passes[doc]; p != nil {
		p.sched.Cancel()
		delete(f.passes, doc)
	}
}

// cancelDeferred stops the continuations of the latest pass on doc without
// forgetting the document.
func (f *Filler) cancelDeferred(doc *dom.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := f.passes[doc]; p != nil {
		p.sched.Cancel()
	}
}

func pageContext(pageURL string) model.PageContext {
	path := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Path != "" {
		path = u.Path
	}
	return model.DetectPageContext(path)
}

// passRun holds the collaborators of a single pass.
type passRun struct {
	settings config.Settings
	conv     convention.Conventions
	cls      *classifier.Classifier
	res      *resolver.Resolver
	wr       *writer.Writer
	sched    *async.Scheduler
	report   *model.FillReport
	logger   *slog.Logger

	identity model.SyntheticRecord
	jobFacts *model.JobPostingFacts
}

func (f *Filler) newPassRun(sched *async.Scheduler, report *model.FillReport) *passRun {
	conv := f.settings.Widgets.Merge(convention.Default())
	cls := classifier.New(conv)
	logger := f.logger.With("pass_id", report.PassID)

	syn := synth.New(f.src, synth.WithClock(f.now), synth.WithCompanies(f.settings.CustomCompanies))
	p := &passRun{
		settings: f.settings,
		conv:     conv,
		cls:      cls,
		res: resolver.New(cls,
			resolver.WithNameFormat(f.settings.NameFormat),
			resolver.WithPhoneStyle(f.settings.PhoneStyle),
		),
		wr:       writer.New(conv, cls, f.src, writer.WithClock(f.now), writer.WithLogger(logger)),
		sched:    sched,
		report:   report,
		logger:   logger,
		identity: syn.Synthesize(f.settings.Gender()),
	}
	if report.PageContext == model.PageJobPosting {
		facts := syn.SynthesizeJobPosting()
		p.jobFacts = &facts
	}
	return p
}
