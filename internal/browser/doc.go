// Package browser drives headless Chrome through the DevTools protocol.
//
// Static HTML is enough for server-rendered forms, but most of the widget
// libraries jpfill targets build their markup in the browser. A Session
// loads a page in Chrome, hands the rendered DOM to the fill engine and
// writes the resulting native values back into the live page, dispatching
// the same input, change and blur events the engine dispatches.
package browser
