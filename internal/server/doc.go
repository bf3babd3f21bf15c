// Package server exposes the fill engine over HTTP.
//
// The API mirrors the commands of the browser extension jpfill descends
// from: a client posts the markup of a page, jpfill fills (or clears) it
// and answers with the filled count, the resulting markup and the report.
//
//	GET  /health
//	POST /api/v1/fill   {html, url, settings} -> {count, notice, html, report}
//	POST /api/v1/clear  {html}                -> {count, html}
package server
