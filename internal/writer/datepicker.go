package writer

import (
	"regexp"
	"strconv"
	"time"

	"github.com/nao1215/jpfill/internal/async"
	"github.com/nao1215/jpfill/internal/classifier"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/model"
)

const isoDate = "2006-01-02"

// dateLayouts are tried in order when typing a date into the inner input.
var dateLayouts = []string{isoDate, "2006/01/02", "2006年1月2日"}

var (
	dateModePattern = regexp.MustCompile(`(?i)date|日付|日時|日程|日にち`)
	panelTitle      = regexp.MustCompile(`(\d{4})\D+(\d{1,2})`)
)

// WriteDatePicker fills a date-picker widget. When the enclosing form item
// offers a date mode radio that is not selected yet, the radio is clicked
// first and the fill continues once the form item has re-rendered. The
// date is typed into the inner input when the component accepts it, and
// picked from the calendar panel otherwise.
func (w *Writer) WriteDatePicker(sched *async.Scheduler, wrapper *dom.Element, birthDate string, settle Settle) Outcome {
	if wrapper.HasClass(w.conv.RangeEditor) {
		return skipped("range editor")
	}

	if radio := w.dateModeRadio(wrapper); radio != nil {
		w.logger.Debug("switching form item to date mode", "selector", wrapper.Selector())
		radio.Click()
		item := wrapper.Closest(func(e *dom.Element) bool { return e.HasClass(w.conv.FormItem) })
		sched.After(modeSwitchDelay, func() {
			editor := wrapper
			if item != nil {
				if e := item.QueryClass(w.conv.DateEditor); e != nil {
					editor = e
				}
			}
			if !editor.Connected() {
				settle("", false, "date editor removed after mode switch")
				return
			}
			out := w.fillDate(sched, editor, birthDate, settle)
			if out.Status != model.StatusDeferred {
				settle(out.Value, out.Status == model.StatusFilled, out.Detail)
			}
		})
		return deferred("")
	}

	return w.fillDate(sched, wrapper, birthDate, settle)
}

func (w *Writer) fillDate(sched *async.Scheduler, editor *dom.Element, birthDate string, settle Settle) Outcome {
	inner := w.innerInput(editor)
	if inner == nil {
		return skipped("no inner input")
	}
	if inner.Value() != "" {
		return skipped("value already present")
	}
	if w.widgetDisabled(editor, inner) {
		return skipped("disabled")
	}

	kind := w.cls.ClassifyDate(editor)
	target := w.targetDate(kind, birthDate)
	w.logger.Debug("date picker target", "selector", editor.Selector(), "kind", kind.String(), "date", target.Format(isoDate))

	if v, ok := typeDate(inner, target); ok {
		return filled(v)
	}

	w.logger.Debug("typed date rejected, using calendar", "selector", editor.Selector())
	w.pickFromCalendar(sched, editor, inner, target, settle)
	return deferred(target.Format(isoDate))
}

// targetDate returns the record's birth date for birth fields and today plus
// the kind's week offset otherwise.
func (w *Writer) targetDate(kind classifier.DateKind, birthDate string) time.Time {
	now := w.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if kind == classifier.DateBirth {
		if t, err := time.ParseInLocation(isoDate, birthDate, now.Location()); err == nil {
			return t
		}
		return today
	}
	return today.AddDate(0, 0, 7*kind.OffsetWeeks())
}

// typeDate tries each layout with an input, change and update:modelValue
// burst and reports success when the input keeps a value.
func typeDate(inner *dom.Element, target time.Time) (string, bool) {
	inner.Focus()
	defer inner.Blur()
	for _, layout := range dateLayouts {
		v := target.Format(layout)
		inner.SetValue(v)
		inner.Dispatch(dom.NewInputEvent(dom.EventInput, v))
		inner.Dispatch(dom.NewEvent(dom.EventChange))
		inner.Dispatch(dom.NewCustomEvent(dom.EventUpdateModelValue, v))
		if got := inner.Value(); got != "" {
			return got, true
		}
	}
	return "", false
}

// dateModeRadio returns an unselected radio in the same form item whose value
// or label names a date mode.
func (w *Writer) dateModeRadio(wrapper *dom.Element) *dom.Element {
	item := wrapper.Closest(func(e *dom.Element) bool { return e.HasClass(w.conv.FormItem) })
	if item == nil {
		return nil
	}
	radios := item.QueryAll(func(e *dom.Element) bool { return e.Tag() == "input" && e.Type() == "radio" })
	for _, r := range radios {
		label := ""
		if l := r.Closest(func(e *dom.Element) bool { return e.Tag() == "label" }); l != nil {
			label = l.Text()
		}
		if !dateModePattern.MatchString(r.GetAttr("value")) && !dateModePattern.MatchString(label) {
			continue
		}
		if r.Checked() || r.Disabled() {
			return nil
		}
		return r
	}
	return nil
}

func (w *Writer) pickFromCalendar(sched *async.Scheduler, editor, inner *dom.Element, target time.Time, settle Settle) {
	doc := editor.Document()
	openPanel := func() *dom.Element {
		return doc.Query(func(e *dom.Element) bool { return e.HasClass(w.conv.PickerPanel) && e.Visible() })
	}
	subscribe := func(onChange func()) func() {
		return doc.Observe(func([]dom.MutationRecord) { onChange() })
	}

	inner.Focus()
	if t := editor.QueryClass(w.conv.DateTrigger); t != nil {
		t.Click()
	} else {
		inner.Click()
	}

	sched.WaitFor(subscribe, func() bool { return openPanel() != nil }, panelTimeout, func(found bool) {
		if !found {
			w.logger.Debug("calendar panel did not open", "selector", editor.Selector())
			settle("", false, "calendar panel not found")
			return
		}
		panel := openPanel()
		w.navigate(panel, target)

		cell := w.dayCell(panel, target.Day())
		if cell == nil {
			settle("", false, "no selectable day in calendar")
			return
		}
		pointerGesture(cell)

		if panel.Connected() && panel.Visible() {
			inner.Dispatch(dom.NewKeyboardEvent(dom.EventKeyDown, "Escape"))
		}
		if panel.Connected() && panel.Visible() {
			if body := doc.Body(); body != nil {
				body.Click()
			}
		}

		if v := inner.Value(); v != "" {
			settle(v, true, "")
			return
		}
		settle("", false, "calendar selection not reflected in input")
	})
}

// navigate moves the panel to the target month, through the year and month
// selects when the panel has them and through prev/next otherwise.
func (w *Writer) navigate(panel *dom.Element, target time.Time) {
	yearSel := panel.Query(func(e *dom.Element) bool { return e.Tag() == "select" && e.HasClass(w.conv.PickerYearSelect) })
	monthSel := panel.Query(func(e *dom.Element) bool { return e.Tag() == "select" && e.HasClass(w.conv.PickerMonthSelect) })
	if yearSel != nil && monthSel != nil {
		selectMatching(yearSel, strconv.Itoa(target.Year()), strconv.Itoa(target.Year())+"年")
		m := strconv.Itoa(int(target.Month()))
		selectMatching(monthSel, m, m+"月")
		return
	}

	title := ""
	for _, l := range panel.QueryAll(func(e *dom.Element) bool { return e.HasClass(w.conv.PickerHeaderLabel) }) {
		title += l.Text() + " "
	}
	match := panelTitle.FindStringSubmatch(title)
	if match == nil {
		w.logger.Debug("calendar title not recognized", "title", title)
		return
	}
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	delta := (target.Year()-year)*12 + int(target.Month()) - month
	delta = max(-maxMonthSteps, min(maxMonthSteps, delta))

	button := panel.QueryClass(w.conv.PickerNext)
	if delta < 0 {
		button = panel.QueryClass(w.conv.PickerPrev)
		delta = -delta
	}
	if button == nil {
		return
	}
	for range delta {
		button.Click()
	}
}

func selectMatching(sel *dom.Element, values ...string) {
	for i, o := range sel.Options() {
		for _, v := range values {
			if o.OptionValue() == v || o.Text() == v {
				sel.SetSelectedIndex(i)
				sel.Dispatch(dom.NewEvent(dom.EventChange))
				return
			}
		}
	}
}

// dayCell returns the in-month cell for day, else the middle in-month cell.
func (w *Writer) dayCell(panel *dom.Element, day int) *dom.Element {
	scope := panel
	if t := panel.QueryClass(w.conv.DateTable); t != nil {
		scope = t
	}
	cells := scope.QueryAll(func(e *dom.Element) bool {
		if e.Tag() != "td" || !e.HasClass(w.conv.DayAvailable) {
			return false
		}
		for _, c := range w.conv.DayOutside {
			if e.HasClass(c) {
				return false
			}
		}
		return true
	})
	if len(cells) == 0 {
		return nil
	}
	want := strconv.Itoa(day)
	for _, c := range cells {
		if c.Text() == want {
			return c
		}
	}
	return cells[len(cells)/2]
}
