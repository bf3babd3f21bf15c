// Package filler orchestrates fill passes over a live document.
//
// A pass synthesizes one identity, classifies every native control and
// widget, resolves a value for it and hands it to the matching writer.
// Widget writers may finish asynchronously; their continuations belong to
// the pass and are cancelled when the next pass on the same document
// starts. Only one pass per document may run its synchronous phase at a
// time.
package filler
