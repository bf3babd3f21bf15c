// Package fetch loads pages into live documents.
//
// Inputs are either http(s) URLs, fetched with a size-limited GET, or local
// file paths (optionally written as file:// URLs). Either way the result is
// a Page holding the parsed dom.Document and the URL that decides the page
// context of a fill pass.
package fetch
