// Package async runs the timed continuations of a fill pass.
//
// Widgets render their option panels after a trigger click, so several
// writers finish their work after a short delay. Every continuation belongs
// to a Scheduler whose context is the pass lifetime: cancelling the pass
// drops continuations that have not started yet. Continuations run inside
// the document task lock, one at a time, like browser timers.
package async
