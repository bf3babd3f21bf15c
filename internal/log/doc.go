// Package log provides the slog logger used by jpfill. The SecureHandler
// masks attributes that may carry credentials typed into, or read from,
// the pages being filled: password and one-time code values, CSRF tokens,
// cookies and authorization headers sent while fetching pages.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("control written", "selector", "#otp", "field", "ignore", "value", "123456")
//	// value is written as ***REDACTED*** because the field is ignored.
//	slog.SetDefault(logger)
package log
