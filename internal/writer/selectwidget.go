package writer

import (
	"strings"

	"github.com/nao1215/jpfill/internal/async"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/synth"
)

// WriteSingleSelect opens a single-select widget and, once its panel has
// rendered, clicks the option matching preferred or a random one. The
// returned outcome is deferred; settle receives the chosen option text.
func (w *Writer) WriteSingleSelect(sched *async.Scheduler, wrapper *dom.Element, preferred string, settle Settle) Outcome {
	inner := w.innerInput(wrapper)
	if w.widgetDisabled(wrapper, inner) {
		return skipped("disabled")
	}
	if w.selectShowsValue(wrapper, inner) {
		return skipped("value already selected")
	}
	if w.selectOpen(wrapper) {
		return skipped("dropdown already open")
	}

	w.trigger(wrapper).Click()

	sched.After(dropdownDelay, func() {
		panel := w.dropdownPanel(wrapper, inner)
		if panel == nil {
			settle("", false, "dropdown panel not found")
			return
		}
		options := w.dropdownOptions(panel)
		if len(options) == 0 {
			settle("", false, "dropdown has no selectable option")
			return
		}
		option := matchOption(options, preferred)
		if option == nil {
			option = options[w.src.IntRange(0, len(options)-1)]
		}
		pointerGesture(option)
		settle(option.Text(), true, "")
	})
	return deferred(preferred)
}

// WriteMultiSelect opens a multi-select widget and clicks one to three
// random options, then closes the panel with an outside click.
func (w *Writer) WriteMultiSelect(sched *async.Scheduler, wrapper *dom.Element, settle Settle) Outcome {
	inner := w.innerInput(wrapper)
	if w.widgetDisabled(wrapper, inner) {
		return skipped("disabled")
	}
	if wrapper.QueryClass(w.conv.SelectedTag) != nil {
		return skipped("selections already shown")
	}

	w.trigger(wrapper).Click()

	sched.After(dropdownDelay, func() {
		panel := w.dropdownPanel(wrapper, inner)
		if panel == nil {
			settle("", false, "dropdown panel not found")
			return
		}
		options := w.dropdownOptions(panel)
		if len(options) == 0 {
			settle("", false, "dropdown has no selectable option")
			return
		}
		n := w.src.IntRange(1, min(maxMultiPick, len(options)))
		chosen := make([]string, 0, n)
		for _, o := range synth.Shuffle(w.src, options)[:n] {
			pointerGesture(o)
			chosen = append(chosen, o.Text())
		}
		if body := wrapper.Document().Body(); body != nil {
			body.Click()
		}
		settle(strings.Join(chosen, ", "), true, "")
	})
	return deferred("")
}

// selectShowsValue reports whether the widget displays a selection rather
// than its placeholder.
func (w *Writer) selectShowsValue(wrapper, inner *dom.Element) bool {
	if inner != nil && inner.Value() != "" {
		return true
	}
	ph := wrapper.QueryClass(w.conv.SelectPlaceholder)
	if ph == nil {
		return false
	}
	if ph.HasClass(w.conv.PlaceholderShown) {
		return false
	}
	if shown := ph.QueryClass(w.conv.PlaceholderShown); shown != nil {
		return false
	}
	return ph.Text() != ""
}

func (w *Writer) selectOpen(wrapper *dom.Element) bool {
	if t := wrapper.QueryClass(w.conv.SelectTrigger); t != nil && t.HasClass(w.conv.OpenState) {
		return true
	}
	return wrapper.HasClass(w.conv.OpenState)
}

// trigger returns the element that opens the widget.
func (w *Writer) trigger(wrapper *dom.Element) *dom.Element {
	if t := wrapper.QueryClass(w.conv.SelectTrigger); t != nil {
		return t
	}
	return wrapper
}

// dropdownPanel finds the panel of a widget: by the id suffix convention on
// the wrapper or inner input id, else the first visible panel.
func (w *Writer) dropdownPanel(wrapper, inner *dom.Element) *dom.Element {
	doc := wrapper.Document()
	ids := []string{wrapper.ID()}
	if inner != nil {
		ids = append(ids, inner.ID())
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if p := doc.ByID(id + w.conv.DropdownIDSuffix); p != nil {
			return p
		}
	}
	return doc.Query(func(e *dom.Element) bool {
		return e.HasClass(w.conv.Dropdown) && e.Visible()
	})
}

// dropdownOptions returns the clickable options of a panel, skipping
// disabled items and empty placeholders.
func (w *Writer) dropdownOptions(panel *dom.Element) []*dom.Element {
	return panel.QueryAll(func(e *dom.Element) bool {
		return e.HasClass(w.conv.DropdownItem) &&
			!e.HasClass(w.conv.DisabledState) &&
			e.Text() != ""
	})
}
