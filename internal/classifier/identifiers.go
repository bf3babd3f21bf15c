package classifier

import (
	"strings"

	"github.com/nao1215/jpfill/internal/dom"
)

// labelClimbLimit bounds how many ancestors are inspected for a nearby label.
const labelClimbLimit = 3

// IdentifierSet is the ordered list of text fragments used to classify a
// control. It is recomputed for every classification and never stored.
type IdentifierSet []string

// String joins the fragments with single spaces.
func (s IdentifierSet) String() string {
	return strings.Join(s, " ")
}

// normalized returns the normalized fragments and their joined form.
func (s IdentifierSet) normalized() ([]string, string) {
	out := make([]string, 0, len(s))
	for _, f := range s {
		if n := normalize(f); n != "" {
			out = append(out, n)
		}
	}
	return out, strings.Join(out, " ")
}

// Identifiers builds the identifier set of a native control or a widget
// wrapper. For a wrapper the inner native input contributes its own
// attributes, and the label of the enclosing form item is always included.
func (c *Classifier) Identifiers(el *dom.Element) IdentifierSet {
	set := make(IdentifierSet, 0, 8)
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			set = append(set, s)
		}
	}

	widget := !isControl(el)
	inner := el
	if widget {
		if in := el.Query(isControl); in != nil {
			inner = in
		}
	}

	add(el.ID())
	add(el.Name())
	add(el.GetAttr("placeholder"))
	add(el.GetAttr("class"))
	if inner != el {
		add(inner.ID())
		add(inner.Name())
		add(inner.GetAttr("placeholder"))
	}

	label := c.labelText(inner)
	add(label)

	add(el.GetAttr("aria-label"))
	if inner != el {
		add(inner.GetAttr("aria-label"))
	}
	add(labelledBy(inner))

	if widget || label == "" {
		add(c.formItemLabel(el, !widget))
	}

	return set
}

// isControl reports whether el is a native form control that can hold a value.
func isControl(el *dom.Element) bool {
	switch el.Tag() {
	case "textarea", "select":
		return true
	case "input":
		return el.Type() != "hidden"
	default:
		return false
	}
}

// labelText finds the label of a native control: by the for attribute, by
// an ancestor label, or by a label that precedes the control or one of its
// close ancestors.
func (c *Classifier) labelText(el *dom.Element) string {
	doc := el.Document()
	if id := el.ID(); id != "" {
		if l := doc.Query(func(x *dom.Element) bool { return x.Tag() == "label" && x.GetAttr("for") == id }); l != nil {
			return l.Text()
		}
	}

	if l := el.Closest(func(x *dom.Element) bool { return x.Tag() == "label" }); l != nil {
		return l.Text()
	}

	cur := el
	for i := 0; i < labelClimbLimit && cur != nil; i++ {
		if i > 0 && countControls(cur) > 1 {
			break
		}
		for _, sib := range cur.PreviousSiblings() {
			if sib.Tag() == "label" || sib.HasClass(c.conv.FormItemLabel) {
				if sib.GetAttr("for") == "" || sib.GetAttr("for") == el.ID() {
					return sib.Text()
				}
			}
			if countControls(sib) > 0 || isControl(sib) {
				break
			}
		}
		if t := cur.PreviousText(); t != "" && i == 0 {
			return t
		}
		cur = cur.Parent()
	}
	return ""
}

// formItemLabel returns the label text of the enclosing form item. With
// exclusive set, the label is used only when the item holds no other control.
func (c *Classifier) formItemLabel(el *dom.Element, exclusive bool) string {
	item := el.Closest(func(x *dom.Element) bool { return x.HasClass(c.conv.FormItem) })
	if item == nil {
		return ""
	}
	if exclusive && countControls(item) > 1 {
		return ""
	}
	label := item.Query(func(x *dom.Element) bool { return x.HasClass(c.conv.FormItemLabel) })
	if label == nil {
		return ""
	}
	return label.Text()
}

func labelledBy(el *dom.Element) string {
	ids := strings.Fields(el.GetAttr("aria-labelledby"))
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if l := el.Document().ByID(id); l != nil {
			parts = append(parts, l.Text())
		}
	}
	return strings.Join(parts, " ")
}

func countControls(el *dom.Element) int {
	return len(el.QueryAll(isControl))
}
