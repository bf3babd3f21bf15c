package filler

import (
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/writer"
)

// ClearAll resets every native control except password, hidden, file and
// button inputs, and returns how many were reset. Pending continuations of
// the latest pass on doc are cancelled first so that no deferred write
// lands after the reset.
//
// ClearAll must not be called from inside doc.Do.
func (f *Filler) ClearAll(doc *dom.Document) int {
	f.cancelDeferred(doc)

	cleared := 0
	doc.Do(func() {
		for _, el := range doc.QueryAll(isNativeControl) {
			if el.Tag() == "input" {
				t := el.Type()
				if t == "password" || t == "hidden" || t == "file" || buttonTypes[t] {
					continue
				}
			}
			writer.Clear(el)
			cleared++
		}
	})
	f.logger.Debug("cleared form controls", "count", cleared)
	return cleared
}
