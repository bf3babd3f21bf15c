// Package lexicon holds the static Japanese data tables that the synthesizer
// samples from: name components in four scripts, prefectures and cities,
// town names, company names, phone prefixes, email domains, and job posting
// templates.
//
// The tables are read-only. Callers must not modify the returned slices.
package lexicon
