package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/jpfill/internal/fetch"
	"github.com/nao1215/jpfill/internal/model"
)

// stepFunc adapts a function to Step.
type stepFunc struct {
	name string
	do   func(ctx context.Context, job *Job) error
}

func (s stepFunc) Name() string { return s.name }

func (s stepFunc) Do(ctx context.Context, job *Job) error {
	if s.do == nil {
		return nil
	}
	return s.do(ctx, job)
}

// trace returns steps that append their name to *ran when executed.
func trace(ran *[]string, names ...string) []Step {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = stepFunc{name: name, do: func(context.Context, *Job) error {
			*ran = append(*ran, name)
			return nil
		}}
	}
	return steps
}

func TestNewPipeline(t *testing.T) {
	t.Parallel()

	p := New()
	if p.logger == nil {
		t.Error("expected a default logger")
	}
	if p.continueOnError {
		t.Error("expected the pipeline to stop on error by default")
	}
	if p.StepCount() != 0 || len(p.StepNames()) != 0 {
		t.Errorf("expected no steps, got %v", p.StepNames())
	}

	if !New(WithContinueOnError(true), WithLogger(nil)).continueOnError {
		t.Error("expected WithContinueOnError to be applied")
	}
}

func TestPipelineRunsStepsInOrder(t *testing.T) {
	t.Parallel()

	var ran []string
	steps := trace(&ran, "load", "fill", "settle", "render")

	p := New()
	p.AddStep(steps[0])
	p.AddSteps(steps[1:]...)

	if diff := cmp.Diff([]string{"load", "fill", "settle", "render"}, p.StepNames()); diff != "" {
		t.Errorf("step names mismatch (-want +got):\n%s", diff)
	}

	job := NewJob(0, "contact.html")
	if err := p.Execute(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(p.StepNames(), ran); diff != "" {
		t.Errorf("execution order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p.StepNames(), job.Report.Data().PerformedSteps); diff != "" {
		t.Errorf("performed steps mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineStepFailure(t *testing.T) {
	t.Parallel()

	errLoad := errors.New("page not found")

	testCases := []struct {
		name            string
		continueOnError bool
		wantErr         error
		wantRan         []string
		wantPerformed   []string
	}{
		{
			name:          "stops after the failing step",
			wantErr:       errLoad,
			wantRan:       []string{"load"},
			wantPerformed: []string{"load"},
		},
		{
			name:            "continues when configured",
			continueOnError: true,
			wantRan:         []string{"load", "render"},
			wantPerformed:   []string{"load", "render"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var ran []string
			p := New(WithContinueOnError(tc.continueOnError))
			p.AddSteps(
				stepFunc{name: "load", do: func(context.Context, *Job) error {
					ran = append(ran, "load")
					return errLoad
				}},
				stepFunc{name: "render", do: func(context.Context, *Job) error {
					ran = append(ran, "render")
					return nil
				}},
			)

			job := NewJob(0, "missing.html")
			err := p.Execute(context.Background(), job)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected error %v, got %v", tc.wantErr, err)
			}
			if diff := cmp.Diff(tc.wantRan, ran); diff != "" {
				t.Errorf("executed steps mismatch (-want +got):\n%s", diff)
			}

			data := job.Report.Data()
			if diff := cmp.Diff(tc.wantPerformed, data.PerformedSteps); diff != "" {
				t.Errorf("performed steps mismatch (-want +got):\n%s", diff)
			}
			if !errors.Is(job.Report.Error, errLoad) || data.ErrorMessage != errLoad.Error() {
				t.Errorf("expected the load error in the report, got %v / %q", job.Report.Error, data.ErrorMessage)
			}
			if data.TimedOut {
				t.Error("a failed step is not a timeout")
			}
		})
	}
}

func TestPipelineCancellation(t *testing.T) {
	t.Parallel()

	t.Run("cancelled before the first step", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var ran []string
		p := New()
		p.AddSteps(trace(&ran, "load", "fill")...)

		job := NewJob(0, "contact.html")
		if err := p.Execute(ctx, job); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(ran) != 0 {
			t.Errorf("expected no step to run, got %v", ran)
		}
		data := job.Report.Data()
		if !data.TimedOut {
			t.Error("expected the report to be marked as timed out")
		}
		if len(data.PerformedSteps) != 0 {
			t.Errorf("expected no performed steps, got %v", data.PerformedSteps)
		}
	})

	t.Run("cancelled between steps", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var ran []string
		p := New()
		p.AddSteps(
			stepFunc{name: "load", do: func(context.Context, *Job) error {
				ran = append(ran, "load")
				cancel()
				return nil
			}},
		)
		p.AddSteps(trace(&ran, "fill")...)

		job := NewJob(0, "contact.html")
		if err := p.Execute(ctx, job); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if diff := cmp.Diff([]string{"load"}, ran); diff != "" {
			t.Errorf("executed steps mismatch (-want +got):\n%s", diff)
		}
		if data := job.Report.Data(); !data.TimedOut || len(data.PerformedSteps) != 1 {
			t.Errorf("expected a timed out report after load, got %+v", data)
		}
	})
}

func TestPipelineFollowsReplacedReport(t *testing.T) {
	t.Parallel()

	var passReport *model.FillReport
	p := New()
	p.AddSteps(
		stepFunc{name: "load"},
		stepFunc{name: "fill", do: func(_ context.Context, job *Job) error {
			passReport = model.NewFillReport(job.Input)
			for _, step := range job.Report.Data().PerformedSteps {
				passReport.AddStep(step)
			}
			job.Report = passReport
			return nil
		}},
		stepFunc{name: "render"},
	)

	job := NewJob(0, "contact.html")
	before := job.Report
	if err := p.Execute(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Report != passReport {
		t.Fatal("expected the job to carry the pass report")
	}
	if diff := cmp.Diff([]string{"load", "fill", "render"}, passReport.Data().PerformedSteps); diff != "" {
		t.Errorf("pass report steps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"load"}, before.Data().PerformedSteps); diff != "" {
		t.Errorf("load report steps mismatch (-want +got):\n%s", diff)
	}
}

func TestJobPageURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		page     *fetch.Page
		expected string
	}{
		{"no page yet", "jobs/new.html", nil, "jobs/new.html"},
		{"local file keeps the input path", "jobs/new.html", &fetch.Page{URL: "file:///srv/jobs/new.html"}, "jobs/new.html"},
		{"fetched page uses its final url", "https://example.jp/form", &fetch.Page{URL: "https://example.jp/job-postings/create"}, "https://example.jp/job-postings/create"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			job := NewJob(3, tc.input)
			job.Page = tc.page
			if got := job.PageURL(); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
