package dom

// MutationRecord describes one change to the tree.
type MutationRecord struct {
	// Target is the element whose children or attributes changed.
	Target  *Element
	Added   []*Element
	Removed []*Element
	// Attribute is the changed attribute name, empty for child-list changes.
	Attribute string
	// CharacterData is true when the text content of Target was replaced.
	CharacterData bool
}

// MutationCallback receives records synchronously after each mutation.
type MutationCallback func(records []MutationRecord)

// Observe registers fn for every subsequent mutation. The returned function
// unregisters it and is safe to call more than once.
func (d *Document) Observe(fn MutationCallback) (stop func()) {
	id := d.nextObsID
	d.nextObsID++
	d.observers[id] = fn
	return func() {
		delete(d.observers, id)
	}
}

func (d *Document) notify(rec MutationRecord) {
	if len(d.observers) == 0 {
		return
	}
	ids := make([]int, 0, len(d.observers))
	for id := range d.observers {
		ids = append(ids, id)
	}
	for _, id := range ids {
		// An earlier callback may have stopped this one.
		if fn, ok := d.observers[id]; ok {
			fn([]MutationRecord{rec})
		}
	}
}
