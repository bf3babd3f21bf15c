package writer

import (
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/jpfill/internal/classifier"
	"github.com/nao1215/jpfill/internal/convention"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/model"
	"github.com/nao1215/jpfill/internal/synth"
)

const (
	// dropdownDelay is the time a select panel needs to render after the
	// trigger was clicked.
	dropdownDelay = 100 * time.Millisecond
	// modeSwitchDelay is the time a form item needs to swap its input after
	// a mode radio was selected.
	modeSwitchDelay = 300 * time.Millisecond
	// panelTimeout bounds the wait for a calendar panel.
	panelTimeout = 1000 * time.Millisecond
	// maxMonthSteps bounds prev/next navigation in a calendar.
	maxMonthSteps = 12
	// maxMultiPick bounds how many options a multi-select receives.
	maxMultiPick = 3
)

// Outcome is the immediate result of one write.
type Outcome struct {
	Status model.Status
	Value  string
	Detail string
}

func filled(v string) Outcome { return Outcome{Status: model.StatusFilled, Value: v} }

func deferred(v string) Outcome { return Outcome{Status: model.StatusDeferred, Value: v} }

func skipped(detail string) Outcome { return Outcome{Status: model.StatusSkipped, Detail: detail} }

// Settle receives the final result of a deferred write. It is called at
// most once, inside the document task lock.
type Settle func(value string, ok bool, detail string)

// Writer performs writes for one fill pass configuration.
type Writer struct {
	conv   convention.Conventions
	cls    *classifier.Classifier
	src    synth.Source
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock sets the clock used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// WithLogger sets the logger used for diagnostic tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// New creates a Writer.
func New(conv convention.Conventions, cls *classifier.Classifier, src synth.Source, opts ...Option) *Writer {
	w := &Writer{
		conv: conv.Merge(convention.Default()),
		cls:  cls,
		src:  src,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Conventions returns the widget class names in effect.
func (w *Writer) Conventions() convention.Conventions {
	return w.conv
}

// dispatchTriple fires input, change and blur, which is what frameworks
// listen for after a programmatic value change.
func dispatchTriple(el *dom.Element) {
	el.Dispatch(dom.NewEvent(dom.EventInput))
	el.Dispatch(dom.NewEvent(dom.EventChange))
	el.Dispatch(dom.NewFocusEvent(dom.EventBlur))
}

// pointerGesture reproduces the mouse sequence of a real click.
func pointerGesture(el *dom.Element) {
	el.Dispatch(dom.NewMouseEvent(dom.EventMouseEnter))
	el.Dispatch(dom.NewMouseEvent(dom.EventMouseDown))
	el.Dispatch(dom.NewMouseEvent(dom.EventMouseUp))
	el.Click()
}

// innerInput returns the native input inside a widget wrapper.
func (w *Writer) innerInput(wrapper *dom.Element) *dom.Element {
	if in := wrapper.Query(func(e *dom.Element) bool {
		return e.Tag() == "input" && e.HasClass(w.conv.InnerInput)
	}); in != nil {
		return in
	}
	return wrapper.Query(func(e *dom.Element) bool {
		return e.Tag() == "input" && e.Type() != "hidden"
	})
}

func (w *Writer) widgetDisabled(wrapper, inner *dom.Element) bool {
	if wrapper.HasClass(w.conv.DisabledState) {
		return true
	}
	if d := wrapper.Query(func(e *dom.Element) bool { return e.HasClass(w.conv.DisabledState) }); d != nil {
		return true
	}
	return inner != nil && inner.Disabled()
}

// matchOption returns the first option whose text equals want, else the
// first whose text contains it.
func matchOption(options []*dom.Element, want string) *dom.Element {
	if want == "" {
		return nil
	}
	for _, o := range options {
		if o.Text() == want {
			return o
		}
	}
	for _, o := range options {
		if strings.Contains(o.Text(), want) {
			return o
		}
	}
	return nil
}
