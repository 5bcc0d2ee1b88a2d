// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// The SecureHandler masks:
//   - attributes named like credentials (cookie, authorization, token, password)
//   - values that look like bearer tokens, JWTs, basic auth or API keys
//   - credential-like query parameters and user-info passwords inside URLs
//
// Audit datasets are frequently exported from authenticated crawls, so page
// URLs logged while analyzing them are sanitized even in verbose mode.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Debug("row extracted", "url", "https://example.com/?token=abc")
//	// url=https://example.com/?token=***REDACTED***
//	slog.SetDefault(logger)
package log
