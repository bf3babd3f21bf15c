package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a live element of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return strings.ToLower(e.node.Data)
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// GetAttr returns the attribute value or "".
func (e *Element) GetAttr(key string) string {
	v, _ := e.Attr(key)
	return v
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(key string) bool {
	_, ok := e.Attr(key)
	return ok
}

// SetAttr sets an attribute and notifies observers.
func (e *Element) SetAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			if a.Val == val {
				return
			}
			e.node.Attr[i].Val = val
			e.doc.notify(MutationRecord{Target: e, Attribute: key})
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
	e.doc.notify(MutationRecord{Target: e, Attribute: key})
}

// RemoveAttr removes an attribute and notifies observers.
func (e *Element) RemoveAttr(key string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			e.doc.notify(MutationRecord{Target: e, Attribute: key})
			return
		}
	}
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return e.GetAttr("id")
}

// Name returns the name attribute.
func (e *Element) Name() string {
	return e.GetAttr("name")
}

// Type returns the lower-case input type. Inputs without a type are "text";
// textarea and select report their tag name.
func (e *Element) Type() string {
	switch e.node.DataAtom {
	case atom.Input:
		if t := strings.ToLower(strings.TrimSpace(e.GetAttr("type"))); t != "" {
			return t
		}
		return "text"
	case atom.Textarea:
		return "textarea"
	case atom.Select:
		if e.HasAttr("multiple") {
			return "select-multiple"
		}
		return "select-one"
	default:
		return e.Tag()
	}
}

// Classes returns the class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.GetAttr("class"))
}

// HasClass reports whether the element carries class c.
func (e *Element) HasClass(c string) bool {
	for _, cl := range e.Classes() {
		if cl == c {
			return true
		}
	}
	return false
}

// AddClass adds c to the class list.
func (e *Element) AddClass(c string) {
	if e.HasClass(c) {
		return
	}
	e.SetAttr("class", strings.TrimSpace(e.GetAttr("class")+" "+c))
}

// RemoveClass removes c from the class list.
func (e *Element) RemoveClass(c string) {
	classes := e.Classes()
	kept := classes[:0]
	for _, cl := range classes {
		if cl != c {
			kept = append(kept, cl)
		}
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// Disabled reports the disabled state.
func (e *Element) Disabled() bool {
	return e.HasAttr("disabled")
}

// ReadOnly reports the readonly state.
func (e *Element) ReadOnly() bool {
	return e.HasAttr("readonly")
}

// Visible reports whether neither the element nor an ancestor is hidden by
// the hidden attribute, display:none, or type=hidden.
func (e *Element) Visible() bool {
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.HasAttr("hidden") {
			return false
		}
		if cur.node.DataAtom == atom.Input && cur.Type() == "hidden" {
			return false
		}
		style := strings.ReplaceAll(strings.ToLower(cur.GetAttr("style")), " ", "")
		if strings.Contains(style, "display:none") {
			return false
		}
	}
	return true
}

// SetVisible toggles display:none in the inline style.
func (e *Element) SetVisible(visible bool) {
	style := e.GetAttr("style")
	parts := make([]string, 0)
	for _, p := range strings.Split(style, ";") {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(strings.ReplaceAll(strings.ToLower(p), " ", ""), "display:") {
			continue
		}
		parts = append(parts, p)
	}
	if !visible {
		parts = append(parts, "display: none")
	}
	if len(parts) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", strings.Join(parts, "; ")+";")
}

// Text returns the whitespace-normalized text content.
func (e *Element) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return strings.Join(strings.Fields(b.String()), " ")
}

// SetText replaces the children with a single text node.
func (e *Element) SetText(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	e.doc.notify(MutationRecord{Target: e, CharacterData: true})
}

// Value returns the current value of a form control.
func (e *Element) Value() string {
	switch e.node.DataAtom {
	case atom.Textarea:
		var b strings.Builder
		for c := e.node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return b.String()
	case atom.Select:
		if opt := e.SelectedOption(); opt != nil {
			return opt.OptionValue()
		}
		return ""
	default:
		return e.GetAttr("value")
	}
}

// SetValue assigns the value of a form control. For a select it selects
// the first option whose value equals v.
func (e *Element) SetValue(v string) {
	switch e.node.DataAtom {
	case atom.Textarea:
		e.SetText(v)
	case atom.Select:
		for i, opt := range e.Options() {
			if opt.OptionValue() == v {
				e.SetSelectedIndex(i)
				return
			}
		}
	default:
		e.SetAttr("value", v)
	}
}

// Checked reports the checked state of a checkbox or radio.
func (e *Element) Checked() bool {
	return e.HasAttr("checked")
}

// SetChecked sets the checked state. Checking a radio unchecks the other
// radios of the same group.
func (e *Element) SetChecked(checked bool) {
	if !checked {
		e.RemoveAttr("checked")
		return
	}
	if e.Type() == "radio" && e.Name() != "" {
		scope := e.Closest(func(p *Element) bool { return p.node.DataAtom == atom.Form })
		var group []*Element
		if scope != nil {
			group = scope.QueryAll(func(o *Element) bool { return o.Type() == "radio" && o.Name() == e.Name() })
		} else {
			group = e.doc.QueryAll(func(o *Element) bool { return o.Type() == "radio" && o.Name() == e.Name() })
		}
		for _, o := range group {
			if o != e {
				o.RemoveAttr("checked")
			}
		}
	}
	e.SetAttr("checked", "")
}

// Options returns the option elements of a select, including those in
// optgroups.
func (e *Element) Options() []*Element {
	return e.QueryAll(func(o *Element) bool { return o.node.DataAtom == atom.Option })
}

// OptionValue returns the value of an option, falling back to its text.
func (e *Element) OptionValue() string {
	if v, ok := e.Attr("value"); ok {
		return v
	}
	return e.Text()
}

// SelectedIndex returns the index of the selected option. A select with no
// explicitly selected option reports 0 when it has options.
func (e *Element) SelectedIndex() int {
	opts := e.Options()
	for i, o := range opts {
		if o.HasAttr("selected") {
			return i
		}
	}
	if len(opts) > 0 && !e.HasAttr("multiple") {
		return 0
	}
	return -1
}

// SelectedOption returns the selected option or nil.
func (e *Element) SelectedOption() *Element {
	i := e.SelectedIndex()
	if i < 0 {
		return nil
	}
	return e.Options()[i]
}

// SetSelectedIndex selects the option at i and deselects the others.
func (e *Element) SetSelectedIndex(i int) {
	for j, o := range e.Options() {
		if j == i {
			o.SetAttr("selected", "")
		} else {
			o.RemoveAttr("selected")
		}
	}
}

// Parent returns the parent element or nil.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// Children returns the element children.
func (e *Element) Children() []*Element {
	out := make([]*Element, 0)
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// PreviousSiblings returns the preceding element siblings, nearest first.
func (e *Element) PreviousSiblings() []*Element {
	out := make([]*Element, 0)
	for s := e.node.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			out = append(out, e.doc.wrap(s))
		}
	}
	return out
}

// PreviousText returns the text node immediately before the element, if any.
func (e *Element) PreviousText() string {
	for s := e.node.PrevSibling; s != nil; s = s.PrevSibling {
		switch s.Type {
		case html.TextNode:
			if t := strings.TrimSpace(s.Data); t != "" {
				return t
			}
		case html.ElementNode:
			return ""
		}
	}
	return ""
}

// Closest returns the nearest ancestor (excluding e) that satisfies pred.
func (e *Element) Closest(pred func(*Element) bool) *Element {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if pred(p) {
			return p
		}
	}
	return nil
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// Connected reports whether the element is attached to the document.
func (e *Element) Connected() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// QueryAll returns the descendants that satisfy pred in document order.
func (e *Element) QueryAll(pred func(*Element) bool) []*Element {
	out := make([]*Element, 0)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				if el := e.doc.wrap(c); pred(el) {
					out = append(out, el)
				}
			}
			walk(c)
		}
	}
	walk(e.node)
	return out
}

// Query returns the first descendant that satisfies pred.
func (e *Element) Query(pred func(*Element) bool) *Element {
	var found *Element
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				if el := e.doc.wrap(c); pred(el) {
					found = el
					return true
				}
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(e.node)
	return found
}

// QueryClass returns the first descendant carrying class c.
func (e *Element) QueryClass(c string) *Element {
	return e.Query(func(x *Element) bool { return x.HasClass(c) })
}

// AppendChild attaches child as the last child of e.
func (e *Element) AppendChild(child *Element) {
	if child.node.Parent != nil {
		child.Remove()
	}
	e.node.AppendChild(child.node)
	e.doc.notify(MutationRecord{Target: e, Added: []*Element{child}})
}

// Remove detaches the element from the tree.
func (e *Element) Remove() {
	parent := e.Parent()
	if e.node.Parent == nil {
		return
	}
	e.node.Parent.RemoveChild(e.node)
	if e.doc.active != nil && e.Contains(e.doc.active) {
		e.doc.active = nil
	}
	e.doc.notify(MutationRecord{Target: parent, Removed: []*Element{e}})
}

// Selector returns a short locator for reports: #id, tag[name=...], or a
// positional path from the body.
func (e *Element) Selector() string {
	if id := e.ID(); id != "" {
		return "#" + id
	}
	if name := e.Name(); name != "" {
		return e.Tag() + `[name="` + name + `"]`
	}
	parts := make([]string, 0)
	for cur := e; cur != nil && cur.node.DataAtom != atom.Body && cur.node.DataAtom != atom.Html; cur = cur.Parent() {
		idx := 1
		for s := cur.node.PrevSibling; s != nil; s = s.PrevSibling {
			if s.Type == html.ElementNode && s.Data == cur.node.Data {
				idx++
			}
		}
		parts = append([]string{cur.Tag() + ":nth-of-type(" + strconv.Itoa(idx) + ")"}, parts...)
	}
	return strings.Join(parts, " > ")
}

// Focus makes e the active element and dispatches focus.
func (e *Element) Focus() {
	if prev := e.doc.active; prev != nil && prev != e {
		prev.Blur()
	}
	e.doc.active = e
	e.Dispatch(NewFocusEvent(EventFocus))
}

// Blur dispatches blur and clears focus if e holds it.
func (e *Element) Blur() {
	if e.doc.active == e {
		e.doc.active = nil
	}
	e.Dispatch(NewFocusEvent(EventBlur))
}

// Click performs the default activation of e: checkboxes toggle and radios
// become checked before the click event, and both then receive input and
// change.
func (e *Element) Click() {
	e.ClickWith(NewMouseEvent(EventClick))
}

// ClickWith is Click with a caller-built click event.
func (e *Element) ClickWith(ev *Event) {
	toggles := false
	if e.node.DataAtom == atom.Input && !e.Disabled() {
		switch e.Type() {
		case "checkbox":
			e.SetChecked(!e.Checked())
			toggles = true
		case "radio":
			if !e.Checked() {
				e.SetChecked(true)
				toggles = true
			}
		}
	}
	e.Dispatch(ev)
	if toggles {
		e.Dispatch(NewInputEvent(EventInput, ""))
		e.Dispatch(NewEvent(EventChange))
	}
}
