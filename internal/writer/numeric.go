package writer

import (
	"strconv"

	"github.com/nao1215/jpfill/internal/classifier"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/synth"
)

// numericRange is an inclusive range with a step.
type numericRange struct {
	lo, hi, step int
}

var numericRanges = map[classifier.NumericKind]numericRange{
	classifier.NumericDailyWage: {10000, 30000, 1000},
	classifier.NumericSalary:    {200000, 500000, 10000},
	classifier.NumericHeadcount: {1, 20, 1},
	classifier.NumericAge:       {20, 65, 1},
	classifier.NumericDuration:  {1, 12, 1},
	classifier.NumericGeneric:   {1, 100, 1},
}

// WriteNumeric fills a numeric-input widget with a value drawn from the
// range of its numeric sub-type.
func (w *Writer) WriteNumeric(wrapper *dom.Element) Outcome {
	inner := w.innerInput(wrapper)
	if inner == nil {
		return skipped("no inner input")
	}
	if inner.Value() != "" {
		return skipped("value already present")
	}
	if w.widgetDisabled(wrapper, inner) || inner.ReadOnly() {
		return skipped("disabled or read-only")
	}

	kind := w.cls.ClassifyNumeric(wrapper)
	r := numericRanges[kind]
	value := strconv.Itoa(synth.Stepped(w.src, r.lo, r.hi, r.step))

	inner.Focus()
	inner.SetValue(value)
	inner.Dispatch(dom.NewEvent(dom.EventInput))
	inner.Dispatch(dom.NewInputEvent(dom.EventInput, value))
	inner.Dispatch(dom.NewEvent(dom.EventChange))
	inner.Blur()

	w.logger.Debug("numeric input filled", "selector", wrapper.Selector(), "kind", kind.String(), "value", value)
	return filled(value)
}
