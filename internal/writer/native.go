package writer

import (
	"strconv"

	"github.com/nao1215/jpfill/internal/dom"
)

// WriteNative assigns value to an input, textarea or select and dispatches
// input, change and blur. Checkboxes ignore value and receive a coin flip;
// radios are always checked.
func (w *Writer) WriteNative(el *dom.Element, value string) Outcome {
	switch el.Tag() {
	case "select":
		return w.writeSelect(el, value)
	case "textarea":
		el.SetValue(value)
		dispatchTriple(el)
		return filled(value)
	}

	switch el.Type() {
	case "checkbox":
		checked := w.src.Bool()
		el.SetChecked(checked)
		dispatchTriple(el)
		return filled(strconv.FormatBool(checked))
	case "radio":
		el.SetChecked(true)
		dispatchTriple(el)
		return filled(el.OptionValue())
	default:
		el.SetValue(value)
		dispatchTriple(el)
		return filled(value)
	}
}

// writeSelect selects the option whose value or text equals value, else a
// random option with a non-empty value.
func (w *Writer) writeSelect(el *dom.Element, value string) Outcome {
	options := el.Options()
	index := -1
	for i, o := range options {
		if o.Disabled() {
			continue
		}
		if value != "" && (o.OptionValue() == value || o.Text() == value) {
			index = i
			break
		}
	}

	if index < 0 {
		candidates := make([]int, 0, len(options))
		for i, o := range options {
			if !o.Disabled() && o.OptionValue() != "" {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			return skipped("no selectable option")
		}
		index = candidates[w.src.IntRange(0, len(candidates)-1)]
	}

	el.SetSelectedIndex(index)
	dispatchTriple(el)
	return filled(options[index].OptionValue())
}

// Clear resets a native control: text values become empty, checkboxes and
// radios are unchecked and selects return to their first option. input and
// change are dispatched so that bound frameworks observe the reset.
func Clear(el *dom.Element) {
	switch {
	case el.Tag() == "select":
		el.SetSelectedIndex(0)
	case el.Tag() == "input" && (el.Type() == "checkbox" || el.Type() == "radio"):
		el.SetChecked(false)
	default:
		el.SetValue("")
	}
	el.Dispatch(dom.NewEvent(dom.EventInput))
	el.Dispatch(dom.NewEvent(dom.EventChange))
}
