package async

import (
	"context"
	"time"
)

// Subscribe registers onChange to be called whenever the watched source
// changes and returns a function that unregisters it. A document observer
// is one source; tests may use a synthetic one.
type Subscribe func(onChange func()) (stop func())

// WaitFor calls then exactly once: with true as soon as cond holds, or at
// timeout with the result of a final cond lookup. It must be called from
// inside the document task lock. then is not called if the pass is
// cancelled first.
func (s *Scheduler) WaitFor(subscribe Subscribe, cond func() bool, timeout time.Duration, then func(found bool)) {
	if cond() {
		s.After(0, func() { then(true) })
		return
	}

	done := false
	var stop func()
	stop = subscribe(func() {
		if done || !cond() {
			return
		}
		done = true
		stop()
		// Resolve after the current mutation has completed.
		s.After(0, func() { then(true) })
	})

	s.After(timeout, func() {
		if done {
			return
		}
		done = true
		stop()
		then(cond())
	})

	context.AfterFunc(s.ctx, func() {
		s.doer.Do(stop)
	})
}
