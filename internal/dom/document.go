package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoBody is returned when a fragment cannot be created because the
// document has no body element.
var ErrNoBody = errors.New("document has no body")

// Document is a parsed HTML page with live state.
type Document struct {
	// task serializes Do calls.
	task sync.Mutex

	root *html.Node

	elems        map[*html.Node]*Element
	listeners    map[*html.Node]map[string][]Listener
	docListeners map[string][]Listener

	observers  map[int]MutationCallback
	nextObsID  int
	eventLog   []EventRecord
	active     *Element
	maxLogSize int
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return newDocument(root), nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:         root,
		elems:        make(map[*html.Node]*Element),
		listeners:    make(map[*html.Node]map[string][]Listener),
		docListeners: make(map[string][]Listener),
		observers:    make(map[int]MutationCallback),
		maxLogSize:   10000,
	}
}

// Do runs fn with exclusive access to the document.
// fn must not call Do, Render or EventLog.
func (d *Document) Do(fn func()) {
	d.task.Lock()
	defer d.task.Unlock()
	fn()
}

// Render writes the current document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.task.Lock()
	defer d.task.Unlock()
	return html.Render(w, d.root)
}

// HTML returns the rendered document as a string.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// wrap returns the cached Element for n so wrappers compare with ==.
func (d *Document) wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	if el, ok := d.elems[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elems[n] = el
	return el
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.wrap(c)
		}
	}
	return nil
}

// Body returns the <body> element or nil.
func (d *Document) Body() *Element {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	return root.Query(func(e *Element) bool { return e.node.DataAtom == atom.Body })
}

// QueryAll returns every element in document order that satisfies pred.
func (d *Document) QueryAll(pred func(*Element) bool) []*Element {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	out := make([]*Element, 0)
	if pred(root) {
		out = append(out, root)
	}
	return append(out, root.QueryAll(pred)...)
}

// Query returns the first element that satisfies pred.
func (d *Document) Query(pred func(*Element) bool) *Element {
	all := d.QueryAll(pred)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// ByID returns the element with the given id.
func (d *Document) ByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.Query(func(e *Element) bool { return e.ID() == id })
}

// ByClass returns all elements carrying the class.
func (d *Document) ByClass(class string) []*Element {
	return d.QueryAll(func(e *Element) bool { return e.HasClass(class) })
}

// ByTag returns all elements with the given tag names.
func (d *Document) ByTag(tags ...string) []*Element {
	return d.QueryAll(func(e *Element) bool {
		for _, t := range tags {
			if e.Tag() == t {
				return true
			}
		}
		return false
	})
}

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag string) *Element {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	return d.wrap(n)
}

// CreateFragment parses markup in body context and returns its top-level
// elements, detached from the tree.
func (d *Document) CreateFragment(markup string) ([]*Element, error) {
	body := d.Body()
	if body == nil {
		return nil, ErrNoBody
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body.node)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, d.wrap(n))
		}
	}
	return out, nil
}

// ActiveElement returns the focused element or nil.
func (d *Document) ActiveElement() *Element {
	return d.active
}

// AddEventListener registers a document-level listener. Bubbling events
// reach it after every ancestor of the target.
func (d *Document) AddEventListener(eventType string, l Listener) {
	d.docListeners[eventType] = append(d.docListeners[eventType], l)
}

// EventLog returns a copy of every event dispatched so far.
func (d *Document) EventLog() []EventRecord {
	d.task.Lock()
	defer d.task.Unlock()
	out := make([]EventRecord, len(d.eventLog))
	copy(out, d.eventLog)
	return out
}

// EventsOn returns the event types dispatched on el, in order.
// It must be called from inside Do or after all work has settled.
func (d *Document) EventsOn(el *Element) []string {
	out := make([]string, 0)
	for _, r := range d.eventLog {
		if r.target == el {
			out = append(out, r.Type)
		}
	}
	return out
}
