// Package main provides the entry point for the jpfill CLI.
//
// jpfill fills the forms of Japanese web pages with plausible synthetic
// data: names in kanji and kana, postal addresses, phone numbers, dates
// and the values of UI-library select and date widgets.
//
// Usage:
//
//	jpfill fill form.html -o out/
//	jpfill fill --browser https://example.com/signup
//	jpfill serve --addr :8080
//
// See --help for all available options.
package main

func main() {
	Execute()
}
