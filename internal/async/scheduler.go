package async

import (
	"context"
	"sync"
	"time"
)

// Doer serializes work on a document. *dom.Document implements it.
type Doer interface {
	Do(fn func())
}

// Scheduler owns the continuations of one pass.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	doer   Doer
	wg     sync.WaitGroup

	// onPanic receives values recovered from continuations.
	onPanic func(recovered any)
}

// NewScheduler creates a Scheduler whose continuations run through doer and
// stop when parent is done or Cancel is called.
func NewScheduler(parent context.Context, doer Doer) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		doer:   doer,
	}
}

// OnPanic installs a handler for panics raised by continuations. A
// continuation that panics is abandoned; the document lock is released and
// the other continuations keep running. Without a handler the panic is
// swallowed. OnPanic must be called before the first After.
func (s *Scheduler) OnPanic(fn func(recovered any)) {
	s.onPanic = fn
}

// Context returns the pass context.
func (s *Scheduler) Context() context.Context {
	return s.ctx
}

// Cancel invalidates every continuation that has not started yet.
func (s *Scheduler) Cancel() {
	s.cancel()
}

// Canceled reports whether the pass was cancelled.
func (s *Scheduler) Canceled() bool {
	return s.ctx.Err() != nil
}

// After runs fn once after d inside the document task lock, unless the
// pass is cancelled first. It may be called from inside a continuation.
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
		}

		s.doer.Do(func() {
			if s.ctx.Err() != nil {
				return
			}
			defer func() {
				if r := recover(); r != nil && s.onPanic != nil {
					s.onPanic(r)
				}
			}()
			fn()
		})
	}()
}

// Wait blocks until every scheduled continuation has finished or ctx is done.
// It must not be called from inside the document task lock.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
