// Package logging provides structured logging for assistlink.
//
// This package wraps a zap logger with package-level helpers so that the
// discovery and request code can log without carrying a logger around.
//
// # Log Levels
//
//   - Debug: one line per liveness probe (address, outcome, latency)
//   - Info: discovery results and completed requests
//   - Warn: recoverable problems (unreadable settings, mDNS failures)
//   - Error: command failures
//
// # Configuration
//
// Logging is silent by default so CLI output stays clean. Enable it with the
// --log-level flag or the ASSISTLINK_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Logs go to stderr in console format.
package logging
