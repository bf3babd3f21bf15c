// Package model defines the data structures shared by the fill engine,
// the report writers and the history database.
//
// The main types are:
//   - FieldType: the semantic meaning assigned to a form control
//   - PageContext and JobField: page-level interpretation signals
//   - SyntheticRecord and JobPostingFacts: the data synthesized for one pass
//   - FillReport: the per-pass result with one FieldOutcome per control
package model
