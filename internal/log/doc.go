// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard
// slog package.
//
// portalwatch handles real account credentials: the configuration file
// carries portal usernames and passwords, and login attempts move session
// cookies and one-time tokens through the process. The SecureHandler
// masks these before any record reaches the underlying handler, so even
// debug-level output is safe to share in a bug report.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Debug("submitting login form",
//	    "state", "submit_credentials",
//	    "username", "jdoe",   // masked
//	    "password", "hunter2", // masked
//	)
//	slog.SetDefault(logger)
package log
