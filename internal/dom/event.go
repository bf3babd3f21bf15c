package dom

// Event types dispatched by the fill engine.
const (
	EventInput            = "input"
	EventChange           = "change"
	EventBlur             = "blur"
	EventFocus            = "focus"
	EventClick            = "click"
	EventMouseEnter       = "mouseenter"
	EventMouseDown        = "mousedown"
	EventMouseUp          = "mouseup"
	EventKeyDown          = "keydown"
	EventUpdateModelValue = "update:modelValue"
)

// EventKind is the interface an event would have in a browser.
type EventKind int

const (
	KindEvent EventKind = iota
	KindInputEvent
	KindMouseEvent
	KindKeyboardEvent
	KindFocusEvent
	KindCustomEvent
)

// String returns the browser interface name.
func (k EventKind) String() string {
	switch k {
	case KindInputEvent:
		return "InputEvent"
	case KindMouseEvent:
		return "MouseEvent"
	case KindKeyboardEvent:
		return "KeyboardEvent"
	case KindFocusEvent:
		return "FocusEvent"
	case KindCustomEvent:
		return "CustomEvent"
	default:
		return "Event"
	}
}

// Event is a dispatched DOM event.
type Event struct {
	Type    string
	Kind    EventKind
	Bubbles bool
	// Key is set for keyboard events.
	Key string
	// Data is the inserted text of an input event or the detail of a
	// custom event.
	Data string

	Target        *Element
	CurrentTarget *Element

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// Listener handles an event.
type Listener func(ev *Event)

// NewEvent returns a plain bubbling event.
func NewEvent(eventType string) *Event {
	return &Event{Type: eventType, Kind: KindEvent, Bubbles: true}
}

// NewInputEvent returns a bubbling InputEvent.
func NewInputEvent(eventType, data string) *Event {
	return &Event{Type: eventType, Kind: KindInputEvent, Bubbles: true, Data: data}
}

// NewMouseEvent returns a mouse event. mouseenter does not bubble.
func NewMouseEvent(eventType string) *Event {
	return &Event{Type: eventType, Kind: KindMouseEvent, Bubbles: eventType != EventMouseEnter}
}

// NewKeyboardEvent returns a bubbling keyboard event for key.
func NewKeyboardEvent(eventType, key string) *Event {
	return &Event{Type: eventType, Kind: KindKeyboardEvent, Bubbles: true, Key: key}
}

// NewFocusEvent returns a non-bubbling focus or blur event.
func NewFocusEvent(eventType string) *Event {
	return &Event{Type: eventType, Kind: KindFocusEvent}
}

// NewCustomEvent returns a bubbling custom event carrying detail.
func NewCustomEvent(eventType, detail string) *Event {
	return &Event{Type: eventType, Kind: KindCustomEvent, Bubbles: true, Data: detail}
}

// EventRecord is one entry of the document event log.
type EventRecord struct {
	Selector string
	Type     string
	Kind     EventKind

	target *Element
}

// AddEventListener registers l for eventType on e.
func (e *Element) AddEventListener(eventType string, l Listener) {
	byType, ok := e.doc.listeners[e.node]
	if !ok {
		byType = make(map[string][]Listener)
		e.doc.listeners[e.node] = byType
	}
	byType[eventType] = append(byType[eventType], l)
}

// Dispatch delivers ev to e, then to each ancestor and the document when
// the event bubbles. Listeners run synchronously.
func (e *Element) Dispatch(ev *Event) {
	d := e.doc
	ev.Target = e
	d.record(e, ev)

	for cur := e; cur != nil; cur = cur.Parent() {
		ev.CurrentTarget = cur
		for _, l := range d.listeners[cur.node][ev.Type] {
			l(ev)
		}
		if ev.stopped || !ev.Bubbles {
			return
		}
	}
	ev.CurrentTarget = nil
	for _, l := range d.docListeners[ev.Type] {
		l(ev)
	}
}

func (d *Document) record(target *Element, ev *Event) {
	if len(d.eventLog) >= d.maxLogSize {
		return
	}
	d.eventLog = append(d.eventLog, EventRecord{
		Selector: target.Selector(),
		Type:     ev.Type,
		Kind:     ev.Kind,
		target:   target,
	})
}
