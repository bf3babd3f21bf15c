package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// Config.ValidateServe. Callers match them with errors.Is.
var (
	// ErrNoInput is returned when neither a file nor a URL was given.
	ErrNoInput = errors.New("no input specified: provide an HTML file or URL")

	// ErrNoListenAddress is returned when the server address is empty.
	ErrNoListenAddress = errors.New("no listen address specified")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidSettleTimeout is returned when the settle timeout is negative.
	// Zero disables waiting for deferred widget writes.
	ErrInvalidSettleTimeout = errors.New("invalid settle timeout: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrChromeURLWithoutBrowser is returned when --chrome-url is given
	// without --browser.
	ErrChromeURLWithoutBrowser = errors.New("--chrome-url requires --browser")
)
