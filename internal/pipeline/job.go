package pipeline

import (
	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/fetch"
	"github.com/nao1215/jpfill/internal/filler"
	"github.com/nao1215/jpfill/internal/model"
)

// Job is one input moving through a pipeline.
type Job struct {
	// Index is the position of the input in its batch.
	Index int

	// Input is the file path or URL as given by the user.
	Input string

	// Page is the loaded document. Set by LoadStep.
	Page *fetch.Page

	// Settings are the effective settings for the page's host.
	Settings config.Settings

	// Filler runs the passes of this job. Set by FillStep or ClearStep.
	Filler *filler.Filler

	// Report is the report of the fill pass. Until FillStep runs it only
	// records the steps and errors of loading.
	Report *model.FillReport

	// Count is the filled count returned by the pass, or the number of
	// cleared controls for clear jobs.
	Count int

	// Applied is the number of values written into the browser.
	Applied int

	// HTML is the rendered markup of the filled document.
	HTML string

	// OutputPath is the file the markup was written to, if any.
	OutputPath string
}

// NewJob creates a job for input.
func NewJob(index int, input string) *Job {
	return &Job{
		Index:    index,
		Input:    input,
		Settings: config.DefaultSettings(),
		Report:   model.NewFillReport(input),
	}
}

// PageURL is the URL that decides the page context. Local files use the
// input path so that relative names like jobs/new.html still match.
func (j *Job) PageURL() string {
	if j.Page != nil && fetch.IsURL(j.Page.URL) {
		return j.Page.URL
	}
	return j.Input
}
