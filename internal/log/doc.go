// Package log provides logging with automatic redaction of sensitive
// information, built on top of the standard slog package.
//
// A crawler logs URLs constantly, and URLs on real sites carry session
// identifiers, tokens, and other secrets in their query strings. The
// RedactHandler masks sensitive attribute values and scrubs sensitive
// query parameters from URL-valued attributes before the record reaches
// the underlying handler.
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("page visited",
//	    "url", "https://example.com/?session=abc123", // query value masked
//	    "title", "Example",
//	)
//
//	slog.SetDefault(logger)
package log
