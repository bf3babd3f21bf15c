// Package dom is a small live document model over golang.org/x/net/html.
//
// It provides what the fill engine needs from a browser: element state
// (value, checked, selected, disabled), event listeners with bubbling,
// mutation observation, focus, and rendering back to HTML. Control state is
// reflected into attributes so Render always shows the current values.
//
// A Document is not safe for concurrent use. All work that touches it runs
// inside Document.Do, which plays the role of the browser event loop.
package dom
