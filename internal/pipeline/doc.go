// Package pipeline runs fill jobs through a sequence of steps.
//
// A job starts as an input (file path or URL) and passes through loading,
// filling, settling deferred widget writes, optionally applying the values
// to a live browser, rendering the filled HTML and storing the report.
// Each stage is a Step that receives the job and may modify it; the
// pipeline provides uniform logging, error recording and cancellation.
//
// Batches of inputs are processed concurrently with errgroup, each input
// through a fresh pipeline.
package pipeline
