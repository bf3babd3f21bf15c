package model

import (
	"encoding/json"
	"slices"
	"sort"
	"sync"
	"time"
)

// Family identifies which writer protocol handled a control.
type Family string

const (
	FamilyNativeText     Family = "native-text"
	FamilyNativeCheckbox Family = "native-checkbox"
	FamilyNativeRadio    Family = "native-radio"
	FamilyNativeSelect   Family = "native-select"
	FamilySingleSelect   Family = "single-select"
	FamilyMultiSelect    Family = "multi-select"
	FamilyNumeric        Family = "numeric"
	FamilyDatePicker     Family = "date-picker"
)

// Status is the outcome of one control in a fill pass.
type Status string

const (
	// StatusFilled means the value was assigned and events were dispatched.
	StatusFilled Status = "filled"
	// StatusDeferred means the assignment was initiated and will complete in
	// a scheduled continuation. Deferred controls count as filled.
	StatusDeferred Status = "deferred"
	// StatusSkipped means the control was excluded by settings or already held a value.
	StatusSkipped Status = "skipped"
	// StatusIgnored means the classifier marked the control as ignore.
	StatusIgnored Status = "ignored"
	// StatusUnresolved means no value could be resolved for the field type.
	StatusUnresolved Status = "unresolved"
	// StatusFailed means the writer could not complete the assignment.
	StatusFailed Status = "failed"
)

// Counted reports whether the status contributes to the filled count.
func (s Status) Counted() bool {
	return s == StatusFilled || s == StatusDeferred
}

// FieldOutcome records what happened to a single control.
type FieldOutcome struct {
	// Selector locates the control in the document (id, name or DOM path).
	Selector  string    `json:"selector"`
	Family    Family    `json:"family"`
	FieldType FieldType `json:"field_type"`
	// Value is the assigned value. Never set for ignored controls.
	Value  string `json:"value,omitempty"`
	Status Status `json:"status"`
	// Detail carries the reason for skipped or failed outcomes.
	Detail string `json:"detail,omitempty"`
	// Settled is true once a deferred assignment has run its continuation.
	Settled bool `json:"settled"`
}

// FillReportData is the serializable content of a FillReport.
type FillReportData struct {
	// PassID uniquely identifies the pass.
	PassID string `json:"pass_id"`

	// Source is the file path or URL the document was loaded from.
	Source string `json:"source"`

	// PageContext is the context derived from the URL path.
	PageContext PageContext `json:"page_context"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Filled is the count returned to the caller: attempts deemed successful,
	// including deferred assignments that had not completed yet.
	Filled int `json:"filled"`

	Outcomes []FieldOutcome `json:"outcomes"`

	// TimedOut is true when deferred work did not settle before the deadline.
	TimedOut bool `json:"timed_out"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// ErrorMessage is the failure of a surrounding step (loading,
	// rendering). The fill engine itself never sets it.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// FillReport is the result of one fill pass over one document. Deferred
// outcomes settle from continuations, so every mutation goes through
// methods that hold the report lock.
type FillReport struct {
	mu sync.Mutex
	FillReportData

	// Error holds the failure of a surrounding step.
	Error error
}

// NewFillReport creates an empty report for the given source.
func NewFillReport(source string) *FillReport {
	return &FillReport{
		FillReportData: FillReportData{
			Source:    source,
			StartedAt: time.Now(),
			Outcomes:  make([]FieldOutcome, 0),
		},
	}
}

// Data returns a consistent copy of the report content.
func (r *FillReport) Data() FillReportData {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.FillReportData
	d.Outcomes = slices.Clone(r.Outcomes)
	d.PerformedSteps = slices.Clone(r.PerformedSteps)
	return d
}

// MarshalJSON encodes a consistent copy of the report.
func (r *FillReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Data())
}

// SetError records the failure of a surrounding step.
func (r *FillReport) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// SetTimedOut marks the report as not fully settled.
func (r *FillReport) SetTimedOut() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TimedOut = true
}

// AddStep records a pipeline step that ran.
func (r *FillReport) AddStep(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PerformedSteps = append(r.PerformedSteps, name)
}

// AddOutcome appends an outcome and returns its index for later settling.
func (r *FillReport) AddOutcome(o FieldOutcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.Status == StatusIgnored {
		o.Value = ""
	}
	if o.Status != StatusDeferred {
		o.Settled = true
	}
	if o.Status.Counted() {
		r.Filled++
	}
	r.Outcomes = append(r.Outcomes, o)
	return len(r.Outcomes) - 1
}

// Settle records the final result of a deferred assignment.
// The filled count is not changed: it reflects attempts, not final DOM state.
func (r *FillReport) Settle(index int, value string, ok bool, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.Outcomes) {
		return
	}
	o := &r.Outcomes[index]
	o.Settled = true
	if ok {
		o.Status = StatusFilled
		if value != "" {
			o.Value = value
		}
		return
	}
	o.Status = StatusFailed
	o.Detail = detail
}

// Snapshot returns a copy of the outcomes that is safe to read while
// continuations are still settling.
func (r *FillReport) Snapshot() []FieldOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]FieldOutcome, len(r.Outcomes))
	copy(out, r.Outcomes)
	return out
}

// CountByStatus tallies outcomes per status.
func (r *FillReport) CountByStatus() map[Status]int {
	return r.Data().CountByStatus()
}

// CountByFamily tallies counted outcomes per writer family.
func (r *FillReport) CountByFamily() map[Family]int {
	return r.Data().CountByFamily()
}

// SortedFamilies returns the families present in counts in a stable order.
func SortedFamilies(counts map[Family]int) []Family {
	families := make([]Family, 0, len(counts))
	for f := range counts {
		families = append(families, f)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })
	return families
}

// Pending returns the number of deferred assignments that have not settled.
func (r *FillReport) Pending() int {
	n := 0
	for _, o := range r.Snapshot() {
		if !o.Settled {
			n++
		}
	}
	return n
}

// Finish stamps the end time.
func (r *FillReport) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedAt = time.Now()
}

// Duration returns the time between start and finish.
func (r *FillReport) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.FillReportData.Duration()
}

// Duration returns the time between start and finish.
func (d FillReportData) Duration() time.Duration {
	if d.FinishedAt.IsZero() {
		return 0
	}
	return d.FinishedAt.Sub(d.StartedAt)
}

// CountByStatus tallies outcomes per status.
func (d FillReportData) CountByStatus() map[Status]int {
	counts := make(map[Status]int)
	for _, o := range d.Outcomes {
		counts[o.Status]++
	}
	return counts
}

// CountByFamily tallies counted outcomes per writer family.
func (d FillReportData) CountByFamily() map[Family]int {
	counts := make(map[Family]int)
	for _, o := range d.Outcomes {
		if o.Status.Counted() {
			counts[o.Family]++
		}
	}
	return counts
}
