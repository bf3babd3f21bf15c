package pipeline

import (
	"context"
	"log/slog"
)

// Step is one stage of handling a page: load, fill, settle, apply,
// render, store or clear.
type Step interface {
	// Do runs the stage on job. A returned error marks the job failed;
	// problems with single controls never reach this level.
	Do(ctx context.Context, job *Job) error

	// Name identifies the stage in logs and in the fill report.
	Name() string
}

// Pipeline runs its steps in order on one job at a time.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for step tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running the remaining steps after one fails.
// A later step that needs missing output (no page after a failed load)
// fails on its own.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in the given order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps on job. Cancellation is checked before each
// step and marks the report as timed out. Step errors are recorded in
// job.Report; the first one is returned unless the pipeline continues on
// error.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"input", job.Input,
				"reason", err,
			)
			job.Report.SetTimedOut()
			return err
		}

		if err := p.run(ctx, step, job); err != nil && !p.continueOnError {
			return err
		}
	}
	return nil
}

// run executes a single step and records it in the job's report.
func (p *Pipeline) run(ctx context.Context, step Step, job *Job) error {
	log := p.logger.With("step", step.Name(), "input", job.Input)
	log.Debug("executing step")

	err := step.Do(ctx, job)

	// FillStep swaps in the report of the pass, so look it up afterwards.
	report := job.Report
	if err != nil {
		log.Error("step failed", "error", err)
		report.SetError(err)
	} else {
		log.Debug("step completed")
	}
	report.AddStep(step.Name())
	return err
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
