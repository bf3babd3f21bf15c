package filler

import (
	"fmt"

	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/model"
	"github.com/nao1215/jpfill/internal/writer"
)

// buttonTypes carry labels, not data.
var buttonTypes = map[string]bool{
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
}

func isNativeControl(e *dom.Element) bool {
	switch e.Tag() {
	case "input", "textarea", "select":
		return true
	default:
		return false
	}
}

// insideWidget reports whether el belongs to a widget subtree or to a
// panel a widget renders. Those controls are driven by the widget routines.
func (p *passRun) insideWidget(el *dom.Element) bool {
	classes := []string{p.conv.Select, p.conv.NumberInput, p.conv.DateEditor, p.conv.Dropdown, p.conv.PickerPanel}
	return el.Closest(func(e *dom.Element) bool {
		for _, c := range classes {
			if c != "" && e.HasClass(c) {
				return true
			}
		}
		return false
	}) != nil
}

// excluded applies the settings filters. Excluded controls are not
// classified and do not appear in the report.
func (p *passRun) excluded(el *dom.Element) bool {
	if el.Tag() != "input" {
		return p.settings.SkipReadonly() && (el.ReadOnly() || el.Disabled())
	}
	switch t := el.Type(); {
	case t == "file" || buttonTypes[t]:
		return true
	case t == "hidden" && p.settings.SkipHidden():
		return true
	}
	return p.settings.SkipReadonly() && (el.ReadOnly() || el.Disabled())
}

func nativeFamily(el *dom.Element) model.Family {
	switch {
	case el.Tag() == "select":
		return model.FamilyNativeSelect
	case el.Tag() == "input" && el.Type() == "checkbox":
		return model.FamilyNativeCheckbox
	case el.Tag() == "input" && el.Type() == "radio":
		return model.FamilyNativeRadio
	default:
		return model.FamilyNativeText
	}
}

func (p *passRun) fillNative(doc *dom.Document) {
	for _, el := range doc.QueryAll(isNativeControl) {
		if p.insideWidget(el) || p.excluded(el) {
			continue
		}
		p.record(el, nativeFamily(el), func() (model.FieldType, writer.Outcome) {
			ft := p.cls.Classify(el)
			if ft == model.FieldIgnore {
				return ft, writer.Outcome{Status: model.StatusIgnored}
			}
			value, ok := p.res.Resolve(ft, &p.identity, p.report.PageContext, p.jobFacts, el)
			if !ok {
				return ft, writer.Outcome{Status: model.StatusUnresolved}
			}
			return ft, p.wr.WriteNative(el, value)
		})
	}
}

func (p *passRun) hasClass(c string) func(*dom.Element) bool {
	return func(e *dom.Element) bool { return c != "" && e.HasClass(c) }
}

func (p *passRun) fillWidgets(doc *dom.Document) {
	for _, wrapper := range doc.QueryAll(p.hasClass(p.conv.Select)) {
		if wrapper.HasClass(p.conv.SelectMultiple) {
			p.recordDeferred(wrapper, model.FamilyMultiSelect, func(settle writer.Settle) (model.FieldType, writer.Outcome) {
				ft := p.cls.Classify(wrapper)
				if ft == model.FieldIgnore {
					return ft, writer.Outcome{Status: model.StatusIgnored}
				}
				return ft, p.wr.WriteMultiSelect(p.sched, wrapper, settle)
			})
			continue
		}
		p.recordDeferred(wrapper, model.FamilySingleSelect, func(settle writer.Settle) (model.FieldType, writer.Outcome) {
			ft := p.cls.Classify(wrapper)
			if ft == model.FieldIgnore {
				return ft, writer.Outcome{Status: model.StatusIgnored}
			}
			preferred, _ := p.res.Resolve(ft, &p.identity, p.report.PageContext, p.jobFacts, wrapper)
			return ft, p.wr.WriteSingleSelect(p.sched, wrapper, preferred, settle)
		})
	}

	for _, wrapper := range doc.QueryAll(p.hasClass(p.conv.NumberInput)) {
		p.record(wrapper, model.FamilyNumeric, func() (model.FieldType, writer.Outcome) {
			if p.cls.Classify(wrapper) == model.FieldIgnore {
				return model.FieldIgnore, writer.Outcome{Status: model.StatusIgnored}
			}
			return model.FieldNumber, p.wr.WriteNumeric(wrapper)
		})
	}

	for _, wrapper := range doc.QueryAll(p.hasClass(p.conv.DateEditor)) {
		p.recordDeferred(wrapper, model.FamilyDatePicker, func(settle writer.Settle) (model.FieldType, writer.Outcome) {
			if p.cls.Classify(wrapper) == model.FieldIgnore {
				return model.FieldIgnore, writer.Outcome{Status: model.StatusIgnored}
			}
			return model.FieldDate, p.wr.WriteDatePicker(p.sched, wrapper, p.identity.DateOfBirth, settle)
		})
	}
}

// record runs one synchronous write and adds its outcome. A panic inside
// the write is recorded as a failure and the pass continues.
func (p *passRun) record(el *dom.Element, family model.Family, write func() (model.FieldType, writer.Outcome)) {
	p.recordDeferred(el, family, func(writer.Settle) (model.FieldType, writer.Outcome) {
		return write()
	})
}

func (p *passRun) recordDeferred(el *dom.Element, family model.Family, write func(writer.Settle) (model.FieldType, writer.Outcome)) {
	selector := el.Selector()
	index := -1
	// Continuations run under the document lock, which this pass holds
	// until every outcome has been added, so index is set before use.
	settle := func(value string, ok bool, detail string) {
		p.report.Settle(index, value, ok, detail)
		if !ok {
			p.logger.Debug("deferred write failed", "selector", selector, "detail", detail)
		}
	}

	ft, out := p.safeWrite(selector, write, settle)
	index = p.report.AddOutcome(model.FieldOutcome{
		Selector:  selector,
		Family:    family,
		FieldType: ft,
		Value:     out.Value,
		Status:    out.Status,
		Detail:    out.Detail,
	})

	if out.Status.Counted() {
		p.logger.Debug("filled field", "selector", selector, "field", ft.String(), "value", out.Value, "status", string(out.Status))
	}
}

func (p *passRun) safeWrite(selector string, write func(writer.Settle) (model.FieldType, writer.Outcome), settle writer.Settle) (ft model.FieldType, out writer.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("writer panicked", "selector", selector, "panic", fmt.Sprint(r))
			out = writer.Outcome{Status: model.StatusFailed, Detail: fmt.Sprintf("panic: %v", r)}
		}
	}()
	return write(settle)
}
